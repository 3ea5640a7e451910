package ports

import "github.com/CChelak/dan-lab/internal/domain"

// ManifestStore persists download manifests for reproducibility.
type ManifestStore interface {
	SaveManifest(m domain.DownloadManifest) (id string, err error)
	ListManifests() ([]domain.DownloadManifest, error)
}
