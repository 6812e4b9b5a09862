package extract

// ItemInfo describes one 8-K item number's human name, signal classifier
// type, and M&A-signal flag, per spec.md §6.3. is_ma_signal is true iff
// item_number is one of {1.01, 2.01, 3.03, 5.01, 5.02, 5.03} (spec.md
// §4.2.4), reproduced here in full rather than the spec's excerpt.
type ItemInfo struct {
	Name       string
	SignalType string
	IsMASignal bool
}

var eightKItemMap = map[string]ItemInfo{
	"1.01": {"Material Agreement", "material_agreement", true},
	"1.02": {"Terminated Material Agreement", "agreement_terminated", false},
	"1.03": {"Bankruptcy or Receivership", "bankruptcy", false},
	"1.04": {"Mine Safety - Reporting of Shutdowns and Patterns of Violations", "mine_safety", false},
	"2.01": {"Acquisition or Disposition of Assets", "acquisition_disposition", true},
	"2.02": {"Results of Operations and Financial Condition", "earnings", false},
	"2.03": {"Creation of a Direct Financial Obligation", "new_debt", false},
	"2.04": {"Triggering Events That Accelerate a Direct Financial Obligation", "debt_acceleration", false},
	"2.05": {"Costs Associated with Exit or Disposal Activities", "restructuring", false},
	"2.06": {"Material Impairments", "impairment", false},
	"3.01": {"Notice of Delisting or Failure to Satisfy a Listing Rule", "delisting_notice", false},
	"3.02": {"Unregistered Sales of Equity Securities", "unregistered_sale", false},
	"3.03": {"Material Modification to Rights of Security Holders", "rights_modification", true},
	"4.01": {"Changes in Registrant's Certifying Accountant", "auditor_change", false},
	"4.02": {"Non-Reliance on Previously Issued Financial Statements", "restatement", false},
	"5.01": {"Changes in Control of Registrant", "control_change", true},
	"5.02": {"Departure/Election of Directors or Officers", "executive_change", true},
	"5.03": {"Amendments to Articles of Incorporation or Bylaws", "governance_change", true},
	"5.04": {"Temporary Suspension of Trading Under Employee Benefit Plans", "trading_suspension", false},
	"5.05": {"Amendments to the Registrant's Code of Ethics", "code_of_ethics_change", false},
	"5.06": {"Change in Shell Company Status", "shell_company_change", false},
	"5.07": {"Submission of Matters to a Vote of Security Holders", "vote_results", false},
	"5.08": {"Shareholder Director Nominations", "director_nominations", false},
	"6.01": {"ABS Informational and Computational Material", "abs_informational", false},
	"6.02": {"Change of Servicer or Trustee", "abs_servicer_change", false},
	"6.03": {"Change in Credit Enhancement or Other External Support", "abs_credit_enhancement", false},
	"6.04": {"Failure to Make a Required Distribution", "abs_distribution_failure", false},
	"6.05": {"Securities Act Updating Disclosure", "abs_disclosure_update", false},
	"7.01": {"Regulation FD Disclosure", "reg_fd", false},
	"8.01": {"Other Events", "other", false},
	"9.01": {"Financial Statements and Exhibits", "exhibits", false},
}

// lookupItem returns the item info for a normalized "N.NN" item number, or
// a generic "Other"-shaped fallback for unrecognized item numbers.
func lookupItem(itemNumber string) ItemInfo {
	if info, ok := eightKItemMap[itemNumber]; ok {
		return info
	}
	return ItemInfo{Name: "Unclassified Item " + itemNumber, SignalType: "unclassified", IsMASignal: false}
}
