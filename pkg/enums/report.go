package enums

import "fmt"

// ReportType selects which sections an exported report contains.
type ReportType string

const (
	ReportTypeOverview  ReportType = "overview"
	ReportTypeMedicine  ReportType = "medicine"
	ReportTypeInventory ReportType = "inventory"
	ReportTypeCondition ReportType = "condition"
	ReportTypeAll       ReportType = "all"
)

var validReportTypes = []ReportType{
	ReportTypeOverview,
	ReportTypeMedicine,
	ReportTypeInventory,
	ReportTypeCondition,
	ReportTypeAll,
}

func (r ReportType) String() string {
	return string(r)
}

func (r ReportType) IsValid() bool {
	for _, candidate := range validReportTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReportType converts raw input into a ReportType. Empty input is the
// overview report.
func ParseReportType(value string) (ReportType, error) {
	if value == "" {
		return ReportTypeOverview, nil
	}
	for _, candidate := range validReportTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report type %q", value)
}

// ReportFormat is the export file format.
type ReportFormat string

const (
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatXLSX ReportFormat = "xlsx"
)

func (f ReportFormat) String() string {
	return string(f)
}

// ContentType is the MIME type served for the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/pdf"
	}
}

// ParseReportFormat converts raw input into a ReportFormat. Empty input is PDF.
func ParseReportFormat(value string) (ReportFormat, error) {
	switch value {
	case "", string(ReportFormatPDF):
		return ReportFormatPDF, nil
	case string(ReportFormatXLSX), "excel":
		return ReportFormatXLSX, nil
	default:
		return "", fmt.Errorf("invalid report format %q", value)
	}
}

// ReportPeriod is a label printed on reports. It does not filter data.
type ReportPeriod string

const (
	ReportPeriodThisWeek    ReportPeriod = "this_week"
	ReportPeriodThisMonth   ReportPeriod = "this_month"
	ReportPeriodThisQuarter ReportPeriod = "this_quarter"
	ReportPeriodThisYear    ReportPeriod = "this_year"
)

var reportPeriodLabels = map[ReportPeriod]string{
	ReportPeriodThisWeek:    "Minggu Ini",
	ReportPeriodThisMonth:   "Bulan Ini",
	ReportPeriodThisQuarter: "Kuartal Ini",
	ReportPeriodThisYear:    "Tahun Ini",
}

// Label returns the Indonesian label; unknown periods read as "Bulan Ini".
func (p ReportPeriod) Label() string {
	if label, ok := reportPeriodLabels[p]; ok {
		return label
	}
	return reportPeriodLabels[ReportPeriodThisMonth]
}
