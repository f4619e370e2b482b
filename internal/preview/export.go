package preview

import (
	"encoding/csv"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/ironsheep/ecg-tools-mcp/internal/leads"
	"github.com/ironsheep/ecg-tools-mcp/internal/logger"
	"github.com/ironsheep/ecg-tools-mcp/internal/pipeline"
	"github.com/ironsheep/ecg-tools-mcp/internal/waveform"
)

// Export file names.
const (
	FileLeads            = "leads_1-12.png"
	FileLongLead         = "long_lead_13.png"
	FilePreprocessed     = "preprocessed_leads_1-12.png"
	FilePreprocessedLong = "preprocessed_lead_13.png"
	FileContours         = "contour_leads_1-12.png"
	FileScaled           = "scaled_leads.csv"
	FileSummary          = "leads.csv"
)

// longLeadWidth is the width the rhythm strip preview is resampled to.
const longLeadWidth = 1200

// ErrNothingToExport is returned for a run that stopped before segmentation.
var ErrNothingToExport = errors.New("run has no lead regions to export")

// Manifest lists what an export wrote.
type Manifest struct {
	RunID string   `json:"run_id"`
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
}

// Exporter writes review artifacts under a base directory.
type Exporter struct {
	baseDir string
	log     *logger.Logger
}

// NewExporter creates an exporter rooted at baseDir. A nil log discards.
func NewExporter(baseDir string, log *logger.Logger) *Exporter {
	if log == nil {
		log = logger.Discard()
	}
	return &Exporter{baseDir: baseDir, log: log}
}

// Dir returns the directory used for runID.
func (e *Exporter) Dir(runID string) string {
	return filepath.Join(e.baseDir, runID)
}

// Export writes every review artifact of res into its run directory.
//
// The directory must not exist yet. If any file fails, the directory is
// removed and the error returned.
func (e *Exporter) Export(res *pipeline.Result) (Manifest, error) {
	if res == nil || len(res.Regions) < leads.TotalLeads {
		return Manifest{}, ErrNothingToExport
	}
	if _, err := uuid.Parse(res.RunID); err != nil {
		return Manifest{}, fmt.Errorf("invalid run id %q: %w", res.RunID, err)
	}

	if err := os.MkdirAll(e.baseDir, 0755); err != nil {
		return Manifest{}, fmt.Errorf("failed to create export directory: %w", err)
	}
	dir := e.Dir(res.RunID)
	if err := os.Mkdir(dir, 0755); err != nil {
		return Manifest{}, fmt.Errorf("failed to create run directory: %w", err)
	}

	m := Manifest{RunID: res.RunID, Dir: dir}
	if err := e.writeAll(res, &m); err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			e.log.Warning("run %s: failed to clean up %s: %v", res.RunID, dir, rmErr)
		}
		return Manifest{}, err
	}

	e.log.Info("run %s: exported %d files to %s", res.RunID, len(m.Files), dir)
	return m, nil
}

// Remove deletes the run directory of runID.
func (e *Exporter) Remove(runID string) error {
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	return os.RemoveAll(e.Dir(runID))
}

// Summary reads back the leads.csv of runID.
func (e *Exporter) Summary(runID string) ([]*SummaryRow, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	return ReadSummary(filepath.Join(e.Dir(runID), FileSummary))
}

func (e *Exporter) writeAll(res *pipeline.Result, m *Manifest) error {
	save := func(name string, img image.Image) error {
		path := filepath.Join(m.Dir, name)
		if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
			return fmt.Errorf("failed to save %s: %w", name, err)
		}
		m.Files = append(m.Files, path)
		return nil
	}

	viridis := Viridis()
	modelRegions := res.Regions[:leads.ModelLeads]
	rhythm := res.Regions[leads.RhythmStrip-1]

	tiles := make([]Tile, len(modelRegions))
	for i, r := range modelRegions {
		tiles[i] = Tile{Title: fmt.Sprintf("Leads %d", r.Index), Image: viridis.Colorize(r.Pixels)}
	}
	if err := save(FileLeads, Montage(tiles, 3)); err != nil {
		return err
	}

	long := viridis.Colorize(rhythm.Pixels)
	height := long.Bounds().Dy() * longLeadWidth / long.Bounds().Dx()
	if err := save(FileLongLead, Titled(transform.Resize(long, longLeadWidth, height, transform.Linear), "Leads 13")); err != nil {
		return err
	}

	for i, r := range modelRegions {
		mask := leads.Binarize(r.Pixels, leads.PreviewSigma)
		tiles[i] = Tile{Title: fmt.Sprintf("pre-processed Leads %d image", r.Index), Image: mask.ToGray()}
	}
	if err := save(FilePreprocessed, Montage(tiles, 3)); err != nil {
		return err
	}

	rhythmMask := leads.Threshold(rhythm.Pixels, leads.PreviewSigma).Mask
	if err := save(FilePreprocessedLong, Titled(rhythmMask.ToGray(), "Leads 13")); err != nil {
		return err
	}

	if len(res.Outputs) > 0 {
		for i, out := range res.Outputs {
			tiles[i] = Tile{Title: fmt.Sprintf("Contour %d image", out.Report.Index)}
			if out.Waveform == nil {
				continue
			}
			img, err := PlotContour(out.Waveform.Resampled)
			if err != nil {
				return err
			}
			tiles[i].Image = img
		}
		if err := save(FileContours, Montage(tiles[:len(res.Outputs)], 3)); err != nil {
			return err
		}

		if err := e.writeScaled(res, m); err != nil {
			return err
		}
		if err := e.writeSummary(res, m); err != nil {
			return err
		}
	}
	return nil
}

// writeScaled writes one row per model lead: the lead index followed by its
// scaled samples. Leads without a waveform are written as zeros, matching
// the assembled feature vector.
func (e *Exporter) writeScaled(res *pipeline.Result, m *Manifest) error {
	path := filepath.Join(m.Dir, FileScaled)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", FileScaled, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := make([]string, 0, waveform.Length+1)
	header = append(header, "lead")
	for j := 0; j < waveform.Length; j++ {
		header = append(header, "s"+strconv.Itoa(j))
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileScaled, err)
	}

	for _, out := range res.Outputs {
		values := out.Vector()
		if values == nil {
			values = make(waveform.Vector, waveform.Length)
		}
		row := make([]string, 0, len(values)+1)
		row = append(row, strconv.Itoa(out.Report.Index))
		for _, v := range values {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", FileScaled, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileScaled, err)
	}
	m.Files = append(m.Files, path)
	return nil
}

// SummaryRow is one line of leads.csv.
type SummaryRow struct {
	Lead        int     `csv:"lead" json:"lead"`
	Name        string  `csv:"name" json:"name"`
	Status      string  `csv:"status" json:"status"`
	Kind        string  `csv:"kind" json:"kind"`
	Threshold   float64 `csv:"threshold" json:"threshold"`
	TracePixels int     `csv:"trace_pixels" json:"trace_pixels"`
	Contours    int     `csv:"contours" json:"contours"`
	Points      int     `csv:"points" json:"points"`
}

func (e *Exporter) writeSummary(res *pipeline.Result, m *Manifest) error {
	rows := make([]*SummaryRow, len(res.Outputs))
	for i, out := range res.Outputs {
		r := out.Report
		rows[i] = &SummaryRow{
			Lead:        r.Index,
			Name:        r.Name,
			Status:      string(r.Status),
			Kind:        string(r.Kind),
			Threshold:   r.Threshold,
			TracePixels: r.TracePx,
			Contours:    r.Contours,
			Points:      r.Points,
		}
	}

	path := filepath.Join(m.Dir, FileSummary)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", FileSummary, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&rows, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileSummary, err)
	}
	m.Files = append(m.Files, path)
	return nil
}

// ReadSummary parses a leads.csv written by Export.
func ReadSummary(path string) ([]*SummaryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary: %w", err)
	}
	defer f.Close()

	var rows []*SummaryRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return rows, nil
}
