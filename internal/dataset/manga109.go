// Package dataset converts Manga109 annotations into a YOLO detector
// training layout.
package dataset

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manga109 annotation XML, one file per book.
type Book struct {
	XMLName xml.Name `xml:"book"`
	Title   string   `xml:"title,attr"`
	Pages   []Page   `xml:"pages>page"`
}

type Page struct {
	Index  int   `xml:"index,attr"`
	Width  int   `xml:"width,attr"`
	Height int   `xml:"height,attr"`
	Texts  []Box `xml:"text"`
	Faces  []Box `xml:"face"`
	Bodies []Box `xml:"body"`
	Frames []Box `xml:"frame"`
}

type Box struct {
	ID   string `xml:"id,attr"`
	XMin int    `xml:"xmin,attr"`
	YMin int    `xml:"ymin,attr"`
	XMax int    `xml:"xmax,attr"`
	YMax int    `xml:"ymax,attr"`
}

// LoadBook parses one book's annotation XML.
func LoadBook(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation: %w", err)
	}
	defer f.Close()

	var book Book
	if err := xml.NewDecoder(f).Decode(&book); err != nil {
		return nil, fmt.Errorf("parse annotation %s: %w", path, err)
	}
	return &book, nil
}

// ListBooks returns the dataset's book titles, from books.txt when
// present, otherwise from the annotation file names.
func ListBooks(root string) ([]string, error) {
	if f, err := os.Open(filepath.Join(root, "books.txt")); err == nil {
		defer f.Close()
		var books []string
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				books = append(books, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read books.txt: %w", err)
		}
		return books, nil
	}

	entries, err := os.ReadDir(filepath.Join(root, "annotations"))
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	var books []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".xml"); ok {
			books = append(books, name)
		}
	}
	return books, nil
}

// AnnotationPath returns the annotation XML path for a book.
func AnnotationPath(root, book string) string {
	return filepath.Join(root, "annotations", book+".xml")
}

// ImagePath returns the page image path for a book and page index.
func ImagePath(root, book string, page int) string {
	return filepath.Join(root, "images", book, fmt.Sprintf("%03d.jpg", page))
}
