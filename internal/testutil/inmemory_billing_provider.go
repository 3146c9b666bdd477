package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/nodehive/nodehive/internal/domain/billing"
	ierr "github.com/nodehive/nodehive/internal/errors"
	"github.com/nodehive/nodehive/internal/types"
)

// UpdateItemCall records one call to UpdateSubscriptionItem
type UpdateItemCall struct {
	ItemID    string
	Quantity  int64
	Proration types.ProrationBehavior
}

// AppendItemCall records one call to AppendSubscriptionItem
type AppendItemCall struct {
	SubscriptionID string
	Price          string
	Quantity       int64
}

// InMemoryBillingProvider implements billing.Provider for tests. It keeps
// line items and metadata per subscription and records every mutating call.
type InMemoryBillingProvider struct {
	mu sync.Mutex

	// items holds the remote line items per subscription id
	items map[string][]billing.LineItem

	// metadata holds the merged subscription metadata
	metadata map[string]map[string]string

	// PriceProducts maps a price id to the product an appended item
	// reports, mirroring the provider's price->product relation
	PriceProducts map[string]string

	// Err, when set, is returned by every call to simulate provider outage
	Err error

	RetrieveCalls int
	UpdateCalls   []UpdateItemCall
	AppendCalls   []AppendItemCall
	MetadataCalls int
	Sessions      []*billing.CheckoutSessionParams

	nextItemID int
}

func NewInMemoryBillingProvider() *InMemoryBillingProvider {
	return &InMemoryBillingProvider{
		items:         make(map[string][]billing.LineItem),
		metadata:      make(map[string]map[string]string),
		PriceProducts: make(map[string]string),
	}
}

// SetItems seeds the remote line items for a subscription
func (p *InMemoryBillingProvider) SetItems(subscriptionID string, items ...billing.LineItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items[subscriptionID] = items
}

// Items returns a copy of the current line items for a subscription
func (p *InMemoryBillingProvider) Items(subscriptionID string) []billing.LineItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]billing.LineItem, len(p.items[subscriptionID]))
	copy(items, p.items[subscriptionID])
	return items
}

// Metadata returns the merged metadata of a subscription
func (p *InMemoryBillingProvider) Metadata(subscriptionID string) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.metadata[subscriptionID]
}

func (p *InMemoryBillingProvider) RetrieveSubscriptionItems(ctx context.Context, subscriptionID string) ([]billing.LineItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	p.RetrieveCalls++
	items := make([]billing.LineItem, len(p.items[subscriptionID]))
	copy(items, p.items[subscriptionID])
	return items, nil
}

func (p *InMemoryBillingProvider) UpdateSubscriptionItem(ctx context.Context, itemID string, quantity int64, proration types.ProrationBehavior) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.UpdateCalls = append(p.UpdateCalls, UpdateItemCall{
		ItemID:    itemID,
		Quantity:  quantity,
		Proration: proration,
	})
	for subID, items := range p.items {
		for i := range items {
			if items[i].ID == itemID {
				p.items[subID][i].Quantity = quantity
				return nil
			}
		}
	}
	return ierr.NewError("subscription item not found").
		WithHintf("No such item %s", itemID).
		Mark(ierr.ErrProvider)
}

func (p *InMemoryBillingProvider) AppendSubscriptionItem(ctx context.Context, subscriptionID string, price string, quantity int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.AppendCalls = append(p.AppendCalls, AppendItemCall{
		SubscriptionID: subscriptionID,
		Price:          price,
		Quantity:       quantity,
	})

	product := p.PriceProducts[price]
	if product == "" {
		product = price
	}
	p.nextItemID++
	p.items[subscriptionID] = append(p.items[subscriptionID], billing.LineItem{
		ID:       fmt.Sprintf("si_%03d", p.nextItemID),
		Quantity: quantity,
		Product:  product,
	})
	return nil
}

func (p *InMemoryBillingProvider) SetSubscriptionMetadata(ctx context.Context, subscriptionID string, metadata map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.MetadataCalls++
	if p.metadata[subscriptionID] == nil {
		p.metadata[subscriptionID] = make(map[string]string)
	}
	for k, v := range metadata {
		p.metadata[subscriptionID][k] = v
	}
	return nil
}

func (p *InMemoryBillingProvider) CreateCheckoutSession(ctx context.Context, params *billing.CheckoutSessionParams) (*billing.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	p.Sessions = append(p.Sessions, params)
	return &billing.CheckoutSession{
		ID:         fmt.Sprintf("cs_%03d", len(p.Sessions)),
		URL:        "https://checkout.example.com/" + params.ClientReferenceID,
		CustomerID: params.CustomerID,
	}, nil
}
