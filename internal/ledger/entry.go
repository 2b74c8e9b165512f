package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/visionapps/darkshop-core/pkg/enums"
)

// Entry is one immutable sale event. Timestamp is unix milliseconds and is
// strictly increasing across the ledger; Date is the display form DD/MM/YYYY
// captured at append time.
type Entry struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Timestamp   int64           `json:"timestamp"`
	Kind        enums.SaleKind  `json:"kind"`
	SellerID    string          `json:"sellerId"`
}

// DateLayout formats Entry.Date.
const DateLayout = "02/01/2006"
