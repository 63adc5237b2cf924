package report

// SiteLink heads reports built from aggregator data.
const SiteLink = "https://www.covid19india.org"

// Fixed user-facing messages.
const (
	MsgUnavailable   = "Data is unavailable. Please try later."
	MsgInvalidRegion = "Invalid state name. Use /statecodes to display codes."
	MsgUnsupported   = "This data source is not supported."
)

func nameCol(label string, width int) Column {
	return Column{Label: label, Width: width, Pad: '.'}
}

func numCol(label string, width int) Column {
	return Column{Label: label, Width: width, Pad: ' ', Numeric: true}
}

var nationalTable = Table{
	Title: []string{SiteLink},
	Columns: []Column{
		nameCol("REGION", 6),
		numCol("CONF", 5),
		numCol("RECO", 5),
		numCol("DECE", 5),
		numCol("ACTI", 5),
	},
}

// nationalSummaryLabel replaces the aggregate row's name.
const nationalSummaryLabel = "INDIA"

func districtTable(region string) Table {
	return Table{
		Title: []string{SiteLink, region},
		Columns: []Column{
			nameCol("DISTRICT", 12),
			numCol("CNFRD", 8),
			numCol("DELTA", 8),
		},
	}
}

func ministryTable(title string) Table {
	return Table{
		Title: []string{title},
		Columns: []Column{
			nameCol("ST", 2),
			numCol("ACTIV", 6),
			numCol("RCVRD", 6),
			numCol("DECSD", 6),
			numCol("CNFRD", 6),
		},
	}
}

func disasterTable(title string) Table {
	return Table{
		Title: []string{title},
		Columns: []Column{
			nameCol("REGION", 8),
			numCol("CNFRD", 6),
			numCol("RCVRD", 6),
			numCol("DECSD", 6),
		},
	}
}

// Recon rows span two lines: code, district, confirmed and active on the
// first; recovered and deceased on the second, under a filler that spans the
// first two columns.
var (
	reconCode     = nameCol("ST", 2)
	reconDistrict = nameCol("DSTRICT", 7)
	reconCount    = numCol("", 7)
	reconFiller   = "__________"
	reconRule     = "--|-------|-------|-------|"
	reconHeader   = []string{
		" Districts with invalid values",
		"______________________________",
		"",
		"ST|DSTRICT|CNFRD..|ACTIV..|",
		reconFiller + "|RCVRD..|DECSD..|",
		reconRule,
	}
)
