package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/antchfx/xmlquery"

	"github.com/edgarintel/pipeline/internal/apperr"
	"github.com/edgarintel/pipeline/internal/graphmodel"
)

// OFACRecord is one SDN entry, per spec.md §4.2.6.
type OFACRecord struct {
	UID              string
	Name             string
	EntityType       string // "individual" | "entity"
	Programs         []string
	Aliases          []string
	Addresses        []string
	Nationality      string
	DateOfBirth      string
	IDNumbers        []string
	Remarks          string
	PublishDate      time.Time
	RawText          string
	RawTextHashShort string
}

// OFAC parses the SDN XML with namespace tolerance: it tries sdn:sdnEntry,
// bare sdnEntry, and tag-suffix matching, per spec.md §4.2.6. publishDate
// is parsed ISO-8601-only per the Open Question decision in DESIGN.md;
// non-ISO values are left zero-valued.
func OFAC(ctx context.Context, raw []byte, sourceURL string, publishDateRaw string) (Result[OFACRecord], error) {
	doc, err := xmlquery.Parse(strings.NewReader(string(raw)))
	if err != nil {
		return Result[OFACRecord]{}, &apperr.ParseError{Accession: "sdn.xml", Err: err}
	}

	publishDate := parseISODate(publishDateRaw)
	if doc != nil {
		if pubNode := xmlquery.FindOne(doc, "//*[local-name()='publshInformation']/*[local-name()='Publish_Date']"); pubNode != nil {
			if parsed := parseISODate(strings.TrimSpace(pubNode.InnerText())); !parsed.IsZero() {
				publishDate = parsed
			}
		}
	}

	entries := findSDNEntries(doc)

	var records []OFACRecord
	for _, entry := range entries {
		rec := parseSDNEntry(entry)
		rec.PublishDate = publishDate

		hash := sha256.Sum256([]byte(rec.RawText))
		rec.RawTextHashShort = hex.EncodeToString(hash[:])[:16]

		records = append(records, rec)
	}

	var warnings []string
	if len(records) == 0 {
		warnings = append(warnings, "no sdnEntry elements matched any namespace strategy")
	}

	return Result[OFACRecord]{
		Records: records,
		Metadata: Metadata{
			Method:     graphmodel.MethodRuleBased,
			Confidence: 0.97,
			SourceURL:  sourceURL,
		},
		Warnings: warnings,
	}, nil
}

// findSDNEntries tries, in order: namespaced "sdn:sdnEntry", bare
// "sdnEntry", and tag-suffix matching on any element whose local name is
// "sdnEntry".
func findSDNEntries(doc *xmlquery.Node) []*xmlquery.Node {
	if nodes := xmlquery.Find(doc, "//sdn:sdnEntry"); len(nodes) > 0 {
		return nodes
	}
	if nodes := xmlquery.Find(doc, "//sdnEntry"); len(nodes) > 0 {
		return nodes
	}
	return xmlquery.Find(doc, "//*[local-name()='sdnEntry']")
}

func parseSDNEntry(entry *xmlquery.Node) OFACRecord {
	uid := sdnText(entry, "uid")
	first := sdnText(entry, "firstName")
	last := sdnText(entry, "lastName")
	name := strings.TrimSpace(strings.TrimSpace(first + " " + last))
	if name == "" {
		name = last
	}

	entityType := "individual"
	if sdnType := sdnText(entry, "sdnType"); strings.EqualFold(sdnType, "entity") {
		entityType = "entity"
	}

	var programs []string
	for _, p := range sdnChildren(entry, "programList", "program") {
		programs = append(programs, strings.TrimSpace(p.InnerText()))
	}

	var aliases []string
	for _, aka := range sdnChildren(entry, "akaList", "aka") {
		akaFirst := sdnText(aka, "firstName")
		akaLast := sdnText(aka, "lastName")
		alias := strings.TrimSpace(strings.TrimSpace(akaFirst + " " + akaLast))
		if alias != "" {
			aliases = append(aliases, alias)
		}
	}

	var addresses []string
	for _, addr := range sdnChildren(entry, "addressList", "address") {
		parts := []string{
			sdnText(addr, "address1"), sdnText(addr, "address2"),
			sdnText(addr, "city"), sdnText(addr, "stateOrProvince"),
			sdnText(addr, "postalCode"), sdnText(addr, "country"),
		}
		var nonEmpty []string
		for _, p := range parts {
			if p != "" {
				nonEmpty = append(nonEmpty, p)
			}
		}
		if len(nonEmpty) > 0 {
			addresses = append(addresses, strings.Join(nonEmpty, ", "))
		}
	}

	var idNumbers []string
	for _, id := range sdnChildren(entry, "idList", "id") {
		idType := sdnText(id, "idType")
		idNumber := sdnText(id, "idNumber")
		if idNumber != "" {
			idNumbers = append(idNumbers, strings.TrimSpace(idType+" "+idNumber))
		}
	}

	remarks := sdnText(entry, "remarks")
	nationality := sdnText(entry, "nationality")
	dob := sdnText(entry, "dateOfBirth")

	rawSummary := fmt.Sprintf("%s (%s) programs=%v remarks=%s", name, entityType, programs, truncate(remarks, 150))

	return OFACRecord{
		UID:         uid,
		Name:        name,
		EntityType:  entityType,
		Programs:    programs,
		Aliases:     aliases,
		Addresses:   addresses,
		Nationality: nationality,
		DateOfBirth: dob,
		IDNumbers:   idNumbers,
		Remarks:     truncate(remarks, 500),
		RawText:     truncate(rawSummary, 500),
	}
}

func sdnText(n *xmlquery.Node, localName string) string {
	node := xmlquery.FindOne(n, "./*[local-name()='"+localName+"']")
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.InnerText())
}

func sdnChildren(n *xmlquery.Node, listName, itemName string) []*xmlquery.Node {
	list := xmlquery.FindOne(n, "./*[local-name()='"+listName+"']")
	if list == nil {
		return nil
	}
	return xmlquery.Find(list, "./*[local-name()='"+itemName+"']")
}

// parseISODate implements the Open Question decision: only ISO-8601
// (YYYY-MM-DD) is ever parsed; any other format yields a zero time.
func parseISODate(s string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
