package batch

import (
	"encoding/json"
	"os"

	"localchart/internal/export"
)

// ManifestName is the file WriteManifest conventionally writes into the
// output directory. FindPlans skips it.
const ManifestName = "manifest.json"

// ManifestEntry represents one rendered chart in the output manifest.
type ManifestEntry struct {
	Plan                 string  `json:"plan"`
	Source               string  `json:"source"`
	Image                string  `json:"image"`
	DPI                  int     `json:"dpi"`
	DPIKnown             bool    `json:"dpi_known"`
	Width                int     `json:"width"`
	Height               int     `json:"height"`
	PaperWidthMM         float64 `json:"paper_width_mm,omitempty"`
	PaperHeightMM        float64 `json:"paper_height_mm,omitempty"`
	TerrainAvailable     bool    `json:"terrain_available"`
	DeclinationAvailable bool    `json:"declination_available"`
	LabelsSkipped        int     `json:"labels_skipped"`
}

// WriteManifest writes the successful results to path. Paper size is only
// filled in when the DPI was embedded.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		e := ManifestEntry{
			Plan:                 r.Plan,
			Source:               r.Source,
			Image:                r.Image,
			DPI:                  r.DPI,
			DPIKnown:             r.DPIKnown,
			Width:                r.Width,
			Height:               r.Height,
			TerrainAvailable:     r.Diagnostics.TerrainAvailable,
			DeclinationAvailable: r.Diagnostics.DeclinationAvailable,
			LabelsSkipped:        r.Diagnostics.LabelsSkipped,
		}
		if r.DPIKnown {
			e.PaperWidthMM = export.PaperMM(float64(r.Width), r.DPI)
			e.PaperHeightMM = export.PaperMM(float64(r.Height), r.DPI)
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
