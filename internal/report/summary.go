package report

import "github.com/nao1215/qrtitle/internal/model"

// Summary counts the outcomes of a batch.
type Summary struct {
	Total       int `json:"total"`
	Titles      int `json:"titles"`
	Empty       int `json:"empty"`
	Failed      int `json:"failed"`
	Cancelled   int `json:"cancelled"`
	Invalid     int `json:"invalid"`
	Denied      int `json:"denied"`
	Interrupted int `json:"interrupted"`
}

// Summarize counts the reports by outcome. Nil reports are skipped.
func Summarize(reports []*model.ScanReport) Summary {
	var s Summary
	for _, r := range reports {
		if r == nil {
			continue
		}
		s.Total++

		switch {
		case r.Error != "":
			s.Interrupted++
		case r.Scan == model.ScanPermissionDenied.String():
			s.Denied++
		case r.Scan == model.ScanUserCancelled.String():
			s.Cancelled++
		case r.Scan == model.ScanInvalidPayload.String():
			s.Invalid++
		case r.Result == model.FetchTitle.String():
			s.Titles++
		case r.Result == model.FetchEmpty.String():
			s.Empty++
		case r.Result == model.FetchFailed.String():
			s.Failed++
		}
	}
	return s
}
