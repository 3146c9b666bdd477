package plan

import (
	"github.com/nodehive/nodehive/internal/types"
)

// Plan is a team type: it defines the free device allocation and may
// override the platform default billing product/price for member seats or
// devices. Empty override fields mean "use the platform default".
type Plan struct {
	// ID is the unique identifier for the plan
	ID string `db:"id" json:"id"`

	// Name is the display name of the plan, e.g. "starter"
	Name string `db:"name" json:"name"`

	// Description is an optional description of the plan
	Description string `db:"description" json:"description"`

	// DeviceFreeAllocation is the number of devices the plan grants at no
	// charge before billable quantity accrues
	DeviceFreeAllocation int `db:"device_free_allocation" json:"device_free_allocation"`

	// MemberProduct/MemberPrice override the default member seat mapping
	MemberProduct string `db:"member_product" json:"member_product,omitempty"`
	MemberPrice   string `db:"member_price" json:"member_price,omitempty"`

	// DeviceProduct/DevicePrice override the default device mapping
	DeviceProduct string `db:"device_product" json:"device_product,omitempty"`
	DevicePrice   string `db:"device_price" json:"device_price,omitempty"`

	types.BaseModel
}
