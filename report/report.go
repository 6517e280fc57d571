// Package report - per-image compression reports and their text and JSON renderings.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/nvr-ai/go-pca/compression"
	"github.com/nvr-ai/go-pca/images"
)

// Report captures the outcome of compressing one image.
type Report struct {
	Source              string    `json:"source"`
	Output              string    `json:"output,omitempty"`
	Timestamp           time.Time `json:"timestamp"`
	Width               int       `json:"width"`
	Height              int       `json:"height"`
	Mode                string    `json:"mode"`
	Value               float64   `json:"value"`
	Rank                int       `json:"rank"`
	RuntimeSeconds      float64   `json:"runtime_seconds"`
	InformationRetained float64   `json:"information_retained_pct"`
	PSNR                float64   `json:"psnr"`
	SSIM                float64   `json:"ssim"`
	MSE                 float64   `json:"mse"`
	VisualDegradation   float64   `json:"visual_degradation_pct"`
	OriginalBytes       int64     `json:"original_bytes,omitempty"`
	CompressedBytes     int64     `json:"compressed_bytes,omitempty"`
	Checksum            string    `json:"checksum,omitempty"`
	Error               string    `json:"error,omitempty"`
}

// New builds a report from a successful compression.
func New(source string, req compression.Request, res *compression.Result) Report {
	return Report{
		Source:              source,
		Timestamp:           time.Now().UTC(),
		Width:               res.Reconstructed.Width,
		Height:              res.Reconstructed.Height,
		Mode:                req.Mode.String(),
		Value:               req.Value,
		Rank:                res.Rank,
		RuntimeSeconds:      res.RuntimeSeconds(),
		InformationRetained: res.Metrics.InformationRetained,
		PSNR:                res.Metrics.PSNR,
		SSIM:                res.Metrics.SSIM,
		MSE:                 res.Metrics.MSE,
		VisualDegradation:   res.Metrics.VisualDegradation,
		Checksum:            images.Checksum(res.Reconstructed),
	}
}

// Failed builds a report for an image that could not be compressed.
func Failed(source string, err error) Report {
	return Report{
		Source:    source,
		Timestamp: time.Now().UTC(),
		Error:     err.Error(),
	}
}

// OK reports whether the compression succeeded.
func (r Report) OK() bool {
	return r.Error == ""
}

// WriteJSON writes reports as an indented JSON array, or a single object when there is
// exactly one.
func WriteJSON(w io.Writer, reports ...Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(reports) == 1 {
		return enc.Encode(reports[0])
	}
	if reports == nil {
		reports = []Report{}
	}
	return enc.Encode(reports)
}

// WriteText writes reports as an aligned table.
func WriteText(w io.Writer, reports ...Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tSIZE\tRANK\tRUNTIME\tINFO%\tPSNR\tSSIM\tMSE\tDEGRADE%\tORIG KB\tOUT KB\tSTATUS")
	for _, r := range reports {
		if !r.OK() {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t-\t-\t-\t-\t%s\n", r.Source, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%.3fs\t%.2f\t%.2f\t%.4f\t%.6f\t%.2f\t%s\t%s\tok\n",
			r.Source, r.Width, r.Height, r.Rank, r.RuntimeSeconds, r.InformationRetained,
			r.PSNR, r.SSIM, r.MSE, r.VisualDegradation, kilobytes(r.OriginalBytes), kilobytes(r.CompressedBytes))
	}
	return tw.Flush()
}

func kilobytes(n int64) string {
	if n <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(n)/1024)
}
