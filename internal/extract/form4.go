package extract

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/edgarintel/pipeline/internal/apperr"
	"github.com/edgarintel/pipeline/internal/graphmodel"
)

// Form4Record is one non-derivative or derivative transaction row, per
// spec.md §4.2.5 / §6.2.
type Form4Record struct {
	IssuerCIK              string
	IssuerName             string
	OwnerName              string
	OwnerCIK               string
	OwnerTitle             string
	IsOfficer              bool
	IsDirector             bool
	IsTenPercentOwner      bool
	SecurityTitle          string
	TransactionDate        time.Time
	TransactionCode        string
	TransactionType        string
	Shares                 float64
	PricePerShare          float64
	TotalValue             float64
	SharesAfterTransaction float64
	OwnershipType          string
	IsDerivative           bool
}

// transactionCodeNames is the Form 4 transaction code map of spec.md §6.2.
var transactionCodeNames = map[string]string{
	"P": "Purchase",
	"S": "Sale",
	"A": "Award",
	"M": "Exercise",
	"F": "Tax",
	"G": "Gift",
	"D": "Disposition",
	"C": "Conversion",
	"W": "Acquisition Due to Will/Inheritance",
	"J": "Other",
	"K": "Equity Swap",
	"U": "Tender of Shares",
	"I": "Discretionary Transaction",
}

// Form4 parses raw Form 4 ownership XML, per spec.md §4.2.5. Input must
// begin with "<?xml" or "<ownershipDocument>"; anything else (pre-2005
// HTML Form 4s) is skipped, not an error.
func Form4(ctx context.Context, raw []byte, accession string) (Result[Form4Record], error) {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "<?xml") && !strings.HasPrefix(trimmed, "<ownershipDocument") {
		return Result[Form4Record]{
			Warnings: []string{"not an XML Form 4 (pre-2005 HTML form), skipped"},
		}, nil
	}

	doc, err := xmlquery.Parse(strings.NewReader(trimmed))
	if err != nil {
		return Result[Form4Record]{}, &apperr.ParseError{Accession: accession, Err: err}
	}

	root := xmlquery.FindOne(doc, "//ownershipDocument")
	if root == nil {
		return Result[Form4Record]{}, &apperr.ParseError{Accession: accession, Err: errNoOwnershipDocument}
	}

	issuerCIK := innerText(root, "./issuer/issuerCik")
	issuerName := innerText(root, "./issuer/issuerName")
	ownerName := innerText(root, "./reportingOwner/reportingOwnerId/rptOwnerName")
	ownerCIK := innerText(root, "./reportingOwner/reportingOwnerId/rptOwnerCik")
	isOfficer := innerText(root, "./reportingOwner/reportingOwnerRelationship/isOfficer") == "1"
	isDirector := innerText(root, "./reportingOwner/reportingOwnerRelationship/isDirector") == "1"
	isTenPct := innerText(root, "./reportingOwner/reportingOwnerRelationship/isTenPercentOwner") == "1"
	ownerTitle := innerText(root, "./reportingOwner/reportingOwnerRelationship/officerTitle")

	var records []Form4Record

	for _, tx := range xmlquery.Find(root, "//nonDerivativeTransaction") {
		records = append(records, buildForm4Record(tx, false, issuerCIK, issuerName, ownerName, ownerCIK, ownerTitle, isOfficer, isDirector, isTenPct))
	}
	for _, tx := range xmlquery.Find(root, "//derivativeTransaction") {
		records = append(records, buildForm4Record(tx, true, issuerCIK, issuerName, ownerName, ownerCIK, ownerTitle, isOfficer, isDirector, isTenPct))
	}

	var warnings []string
	if len(records) == 0 {
		warnings = append(warnings, "no nonDerivativeTransaction or derivativeTransaction elements found")
	}

	return Result[Form4Record]{
		Records: records,
		Metadata: Metadata{
			Method:         graphmodel.MethodRuleBased,
			Confidence:     0.98,
			SourceFilingID: accession,
		},
		Warnings: warnings,
	}, nil
}

func buildForm4Record(tx *xmlquery.Node, derivative bool, issuerCIK, issuerName, ownerName, ownerCIK, ownerTitle string, isOfficer, isDirector, isTenPct bool) Form4Record {
	shares := parseFloatOr(innerText(tx, "./transactionAmounts/transactionShares/value"))
	price := parseFloatOr(innerText(tx, "./transactionAmounts/transactionPricePerShare/value"))
	sharesAfter := parseFloatOr(innerText(tx, "./postTransactionAmounts/sharesOwnedFollowingTransaction/value"))

	txCode := innerText(tx, "./transactionCoding/transactionCode")

	return Form4Record{
		IssuerCIK:              issuerCIK,
		IssuerName:             issuerName,
		OwnerName:              ownerName,
		OwnerCIK:               ownerCIK,
		OwnerTitle:             ownerTitle,
		IsOfficer:              isOfficer,
		IsDirector:             isDirector,
		IsTenPercentOwner:      isTenPct,
		SecurityTitle:          innerText(tx, "./securityTitle/value"),
		TransactionDate:        parseDateOr(innerText(tx, "./transactionDate/value")),
		TransactionCode:        txCode,
		TransactionType:        transactionCodeNames[txCode],
		Shares:                 shares,
		PricePerShare:          price,
		TotalValue:             shares * price,
		SharesAfterTransaction: sharesAfter,
		OwnershipType:          innerText(tx, "./ownershipNature/directOrIndirectOwnership/value"),
		IsDerivative:           derivative,
	}
}

func innerText(n *xmlquery.Node, xpath string) string {
	node := xmlquery.FindOne(n, xpath)
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.InnerText())
}

func parseFloatOr(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseDateOr(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

var errNoOwnershipDocument = parseErrSentinel("no <ownershipDocument> root element found")

type parseErrSentinel string

func (e parseErrSentinel) Error() string { return string(e) }
