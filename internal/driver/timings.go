package driver

import (
	"encoding/json"
	"fmt"

	"svelab/internal/diag"
	"svelab/internal/observ"
	"svelab/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings adds the --timings report to bag as an info diagnostic
// whose note carries the phases as JSON. It is never dropped by the bag
// limit.
func AppendTimings(bag *diag.Bag, report observ.Report, path string) {
	appendTimingDiagnostic(bag, timingPayload{Path: path, TotalMS: report.TotalMS, Phases: report.Phases})
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s for %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Primary:  source.Span{File: noFile},
		Notes: []diag.Note{
			{Span: source.Span{File: noFile}, Msg: string(data)},
		},
	}

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
