package catalog

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	pkgerrors "github.com/angelmondragon/brewcart/pkg/errors"
	"github.com/angelmondragon/brewcart/pkg/validate"
)

// Source yields the current menu from the catalog service.
type Source interface {
	Menu(ctx context.Context) (*Menu, error)
}

// Static serves a fixed menu.
type Static struct {
	menu *Menu
}

func NewStatic(menu *Menu) Static {
	return Static{menu: menu}
}

func (s Static) Menu(ctx context.Context) (*Menu, error) {
	if s.menu == nil {
		return NewMenu(nil, nil), nil
	}
	return s.menu, nil
}

type menuDocument struct {
	Sizes    []SizeOption `json:"sizes" validate:"dive"`
	Toppings []Topping    `json:"toppings" validate:"dive"`
}

// FileSource reads a JSON menu document of the form {"sizes": [...], "toppings": [...]}.
type FileSource struct {
	path string
}

func NewFileSource(path string) (*FileSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu file path is required")
	}
	return &FileSource{path: path}, nil
}

func (s *FileSource) Menu(ctx context.Context) (*Menu, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read menu file")
	}
	return ParseMenu(raw)
}

// ParseMenu decodes and validates a menu document.
func ParseMenu(raw []byte) (*Menu, error) {
	var doc menuDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode menu document")
	}
	if err := validate.Struct(doc); err != nil {
		return nil, err
	}
	return NewMenu(doc.Sizes, doc.Toppings), nil
}
