package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shrey-bhatia/koharu/internal/logger"
)

// Annotation classes, in YOLO class-id order.
var classNames = []string{"text", "face", "body", "frame"}

// YoloBox is one normalized YOLO label: class id plus center/size
// relative to the image dimensions.
type YoloBox struct {
	Class          int
	CX, CY, W, H   float64
}

// toYolo converts a corner box to a normalized YOLO center box.
func toYolo(class int, b Box, imgWidth, imgHeight int) YoloBox {
	w := float64(imgWidth)
	h := float64(imgHeight)
	return YoloBox{
		Class: class,
		CX:    (float64(b.XMin) + float64(b.XMax)) / 2 / w,
		CY:    (float64(b.YMin) + float64(b.YMax)) / 2 / h,
		W:     float64(b.XMax-b.XMin) / w,
		H:     float64(b.YMax-b.YMin) / h,
	}
}

func (b YoloBox) String() string {
	return fmt.Sprintf("%d %.6f %.6f %.6f %.6f", b.Class, b.CX, b.CY, b.W, b.H)
}

// PageLabels converts all annotated boxes on a page to YOLO labels, in
// class order.
func PageLabels(page Page) []YoloBox {
	groups := [][]Box{page.Texts, page.Faces, page.Bodies, page.Frames}

	var labels []YoloBox
	for class, boxes := range groups {
		for _, b := range boxes {
			labels = append(labels, toYolo(class, b, page.Width, page.Height))
		}
	}
	return labels
}

// ConvertConfig controls a dataset conversion run.
type ConvertConfig struct {
	// Root is the Manga109 dataset root directory.
	Root string
	// OutDir receives the YOLO layout (images/, labels/,
	// classes.txt, manga109.yaml).
	OutDir string
	// Books restricts conversion to the named books; empty means all.
	Books []string
}

// Convert writes the YOLO training layout for the selected books.
func Convert(cfg ConvertConfig, log logger.Logger) error {
	books := cfg.Books
	if len(books) == 0 {
		var err error
		books, err = ListBooks(cfg.Root)
		if err != nil {
			return err
		}
	}

	for _, dir := range []string{"images", "labels"} {
		if err := os.MkdirAll(filepath.Join(cfg.OutDir, dir), 0o755); err != nil {
			return fmt.Errorf("create output layout: %w", err)
		}
	}

	if err := writeClasses(cfg.OutDir); err != nil {
		return err
	}

	for _, book := range books {
		log.Info("converting book", "book", book)
		if err := convertBook(cfg, book, log); err != nil {
			return fmt.Errorf("book %s: %w", book, err)
		}
	}

	if err := writeDatasetYAML(cfg.OutDir); err != nil {
		return err
	}

	log.Info("conversion complete", "books", len(books), "output", cfg.OutDir)
	return nil
}

func convertBook(cfg ConvertConfig, bookName string, log logger.Logger) error {
	book, err := LoadBook(AnnotationPath(cfg.Root, bookName))
	if err != nil {
		return err
	}

	for _, page := range book.Pages {
		stem := fmt.Sprintf("%s_%03d", bookName, page.Index)

		src := ImagePath(cfg.Root, bookName, page.Index)
		dst := filepath.Join(cfg.OutDir, "images", stem+".jpg")
		if err := copyFile(src, dst); err != nil {
			// Annotated pages without an image file occur in
			// partial dataset checkouts; keep the labels.
			log.Warn("page image missing", "book", bookName, "page", page.Index)
		}

		if err := writeLabels(filepath.Join(cfg.OutDir, "labels", stem+".txt"), PageLabels(page)); err != nil {
			return err
		}
	}
	return nil
}

func writeLabels(path string, labels []YoloBox) error {
	var sb strings.Builder
	for _, l := range labels {
		sb.WriteString(l.String())
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write labels: %w", err)
	}
	return nil
}

func writeClasses(outDir string) error {
	content := strings.Join(classNames, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(outDir, "classes.txt"), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write classes.txt: %w", err)
	}
	return nil
}

// datasetYAML is the YOLO training configuration file.
type datasetYAML struct {
	Path  string         `yaml:"path"`
	Train string         `yaml:"train"`
	Val   string         `yaml:"val"`
	Names map[int]string `yaml:"names"`
}

func writeDatasetYAML(outDir string) error {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		abs = outDir
	}

	names := make(map[int]string, len(classNames))
	for i, n := range classNames {
		names[i] = n
	}

	data, err := yaml.Marshal(datasetYAML{
		Path:  abs,
		Train: "images",
		Val:   "images",
		Names: names,
	})
	if err != nil {
		return fmt.Errorf("marshal dataset yaml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "manga109.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("write dataset yaml: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
