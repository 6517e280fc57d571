package report

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a batch of reports.
type Summary struct {
	Total     int     `json:"total"`
	Succeeded int     `json:"succeeded"`
	Failed    int     `json:"failed"`
	ErrorRate float64 `json:"error_rate"`

	TotalRuntimeSeconds float64 `json:"total_runtime_seconds"`
	MinRuntimeSeconds   float64 `json:"min_runtime_seconds"`
	MaxRuntimeSeconds   float64 `json:"max_runtime_seconds"`
	MeanRuntimeSeconds  float64 `json:"mean_runtime_seconds"`

	MeanInformationRetained float64 `json:"mean_information_retained_pct"`
	MeanPSNR                float64 `json:"mean_psnr"`
	MeanSSIM                float64 `json:"mean_ssim"`

	OriginalBytes   int64 `json:"original_bytes"`
	CompressedBytes int64 `json:"compressed_bytes"`
}

// Summarize computes runtime and quality statistics over the successful reports.
//
// Arguments:
// - reports: The per-image reports of one run.
//
// Returns:
// - The summary. Statistics are zero when nothing succeeded.
func Summarize(reports []Report) Summary {
	s := Summary{Total: len(reports)}

	var runtimes, info, psnr, ssim []float64
	for _, r := range reports {
		if !r.OK() {
			s.Failed++
			continue
		}
		s.Succeeded++
		runtimes = append(runtimes, r.RuntimeSeconds)
		info = append(info, r.InformationRetained)
		psnr = append(psnr, r.PSNR)
		ssim = append(ssim, r.SSIM)
		s.OriginalBytes += r.OriginalBytes
		s.CompressedBytes += r.CompressedBytes
	}

	if s.Total > 0 {
		s.ErrorRate = float64(s.Failed) / float64(s.Total)
	}
	if s.Succeeded == 0 {
		return s
	}

	s.TotalRuntimeSeconds = floats.Sum(runtimes)
	s.MinRuntimeSeconds = floats.Min(runtimes)
	s.MaxRuntimeSeconds = floats.Max(runtimes)
	s.MeanRuntimeSeconds = stat.Mean(runtimes, nil)
	s.MeanInformationRetained = stat.Mean(info, nil)
	s.MeanPSNR = stat.Mean(psnr, nil)
	s.MeanSSIM = stat.Mean(ssim, nil)

	return s
}

// WriteSummary writes s as a short human readable block.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w,
		"\n%d images, %d ok, %d failed\n"+
			"runtime: total %.3fs, min %.3fs, mean %.3fs, max %.3fs\n"+
			"mean information retained %.2f%%, mean PSNR %.2f dB, mean SSIM %.4f\n"+
			"size: %s KB -> %s KB\n",
		s.Total, s.Succeeded, s.Failed,
		s.TotalRuntimeSeconds, s.MinRuntimeSeconds, s.MeanRuntimeSeconds, s.MaxRuntimeSeconds,
		s.MeanInformationRetained, s.MeanPSNR, s.MeanSSIM,
		kilobytes(s.OriginalBytes), kilobytes(s.CompressedBytes))
	return err
}
