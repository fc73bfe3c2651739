package chart

import (
	"image"
	"strconv"

	"localchart/internal/export"
	"localchart/internal/geodesy"
	"localchart/internal/logging"
	"localchart/internal/metrics"
	"localchart/internal/postprocess"
	"localchart/internal/raster"
)

// RenderedChart is the result of one render.
type RenderedChart struct {
	surface raster.Surface

	Context     RenderContext
	Config      RenderConfig
	North       geodesy.NorthAngles
	Diagnostics Diagnostics

	log *logging.Logger
}

// Surface returns the composited paint target.
func (c *RenderedChart) Surface() raster.Surface {
	return c.surface
}

// Image returns the composited chart at device resolution.
func (c *RenderedChart) Image() *image.RGBA {
	return c.surface.Image()
}

// Preview returns the chart scaled to CSS pixel size.
func (c *RenderedChart) Preview() image.Image {
	return postprocess.AtDPR(c.surface.Image(), c.Context.DPR)
}

// DPI is the print resolution at which the chart measures
// 1:PrintScaleDenominator.
func (c *RenderedChart) DPI() (int, error) {
	return export.ComputeDPI(c.Config.PrintScaleDenominator, c.Context.Scale, c.Context.DPR)
}

// ExportPNG encodes the chart with its print DPI embedded. If the DPI
// cannot be embedded the raw PNG is returned with DPIKnown false and the
// caller should print it fit-to-page.
func (c *RenderedChart) ExportPNG() (export.Result, error) {
	dpi, err := c.DPI()
	if err != nil {
		return export.Result{}, err
	}
	res, err := export.EncodePNG(c.Image(), dpi)
	if err != nil {
		return res, err
	}
	if res.Warning != nil {
		c.log.Warn("png exported without dpi metadata", "dpi", dpi, "error", res.Warning)
	}
	metrics.Exports.WithLabelValues(string(res.Format), strconv.FormatBool(res.DPIKnown)).Inc()
	return res, nil
}

// ExportWebP encodes the chart as lossless WebP. The DPI is reported but
// not embedded.
func (c *RenderedChart) ExportWebP() (export.Result, error) {
	dpi, err := c.DPI()
	if err != nil {
		return export.Result{}, err
	}
	res, err := export.EncodeWebP(c.Image(), dpi)
	if err != nil {
		return res, err
	}
	metrics.Exports.WithLabelValues(string(res.Format), strconv.FormatBool(res.DPIKnown)).Inc()
	return res, nil
}
