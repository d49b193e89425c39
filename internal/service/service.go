package service

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"lensgallery/internal/catalog"
	"lensgallery/internal/config"
	"lensgallery/internal/titles"
)

// ErrImageNotInCatalog is returned when a title operation names an unknown image.
var ErrImageNotInCatalog = errors.New("image not in catalog")

// TitleStore abstracts the title DB for easier testing and decoupling.
type TitleStore interface {
	SetTitle(imagePath, title string) error
	Title(imagePath string) (string, bool, error)
	RemoveTitle(imagePath string) error
	AllTitles() ([]titles.Entry, error)
	Prune(keep func(imagePath string) bool) (int, error)
	Close() error
}

// Service is the main entry point for catalog and title logic.
type Service struct {
	Titles TitleStore
	Logger *slog.Logger
}

// NewService constructs a new Service. titles may be nil, in which case file
// names are used as titles and title operations fail.
func NewService(titleStore TitleStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{Titles: titleStore, Logger: logger}
}

// LoadCatalog builds the catalog described by cfg: the manifest when set,
// otherwise the image directory, otherwise the stock catalog. Stored titles
// are applied on top.
func (s *Service) LoadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	switch {
	case cfg.Manifest != "":
		cat, err = catalog.LoadManifest(cfg.Manifest, cfg.Folder)
		if err != nil {
			return nil, err
		}
		s.Logger.Info("Loaded catalog manifest", "path", cfg.Manifest, "images", cat.Len())
	case cfg.Dir != "":
		names, err := catalog.ScanDir(cfg.Dir)
		if err != nil {
			return nil, err
		}
		cat = catalog.New(cfg.Folder, names)
		s.Logger.Info("Scanned image directory", "dir", cfg.Dir, "images", cat.Len())
	default:
		cat = catalog.New(cfg.Folder, catalog.DefaultNames)
		s.Logger.Info("Using stock catalog", "images", cat.Len())
	}

	if s.Titles == nil {
		return cat, nil
	}
	titled, err := cat.WithTitles(s.Titles)
	if err != nil {
		// Titles are cosmetic; keep serving with file names.
		s.Logger.Warn("Some titles could not be read", "err", err)
	}
	return titled, nil
}

func (s *Service) resolve(cat *catalog.Catalog, key string) (catalog.Image, error) {
	if key == "" {
		return catalog.Image{}, errors.New("image name required")
	}
	img, ok := cat.Lookup(key)
	if !ok {
		img, ok = cat.Lookup(filepath.Base(key))
	}
	if !ok {
		return catalog.Image{}, fmt.Errorf("%s: %w", key, ErrImageNotInCatalog)
	}
	return img, nil
}

func (s *Service) requireTitles() error {
	if s.Titles == nil {
		return errors.New("title database not configured")
	}
	return nil
}

// SetTitle stores a display title for the catalog image named by key
// (file name or display path).
func (s *Service) SetTitle(cat *catalog.Catalog, key, title string) (catalog.Image, error) {
	if err := s.requireTitles(); err != nil {
		return catalog.Image{}, err
	}
	img, err := s.resolve(cat, key)
	if err != nil {
		return catalog.Image{}, err
	}
	if err := s.Titles.SetTitle(img.Path, title); err != nil {
		return catalog.Image{}, err
	}
	s.Logger.Info("Set title", "image", img.Path, "title", title)
	return img, nil
}

// RemoveTitle clears the stored title so the file name is shown again.
func (s *Service) RemoveTitle(cat *catalog.Catalog, key string) (catalog.Image, error) {
	if err := s.requireTitles(); err != nil {
		return catalog.Image{}, err
	}
	img, err := s.resolve(cat, key)
	if err != nil {
		return catalog.Image{}, err
	}
	if err := s.Titles.RemoveTitle(img.Path); err != nil {
		return catalog.Image{}, err
	}
	return img, nil
}

// ListTitles returns every stored title.
func (s *Service) ListTitles() ([]titles.Entry, error) {
	if err := s.requireTitles(); err != nil {
		return nil, err
	}
	return s.Titles.AllTitles()
}

// PruneTitles removes stored titles for images that are no longer in cat.
func (s *Service) PruneTitles(cat *catalog.Catalog) (int, error) {
	if err := s.requireTitles(); err != nil {
		return 0, err
	}
	return s.Titles.Prune(func(p string) bool { return cat.IndexOf(p) >= 0 })
}
