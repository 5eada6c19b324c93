package datasets

import (
	"path"

	"github.com/atelierhub/sheetmirror/internal/models"
)

// DesiredAssets derives one AssetRecord per student that carries an image
// reference. The reference is the remote asset id; the local filename is
// the id with a .jpg default when the reference has no extension.
func DesiredAssets(students []models.Student) []models.AssetRecord {
	out := make([]models.AssetRecord, 0, len(students))
	for _, s := range students {
		if s.ImageRef == "" {
			continue
		}
		out = append(out, models.AssetRecord{
			ID:       s.ImageRef,
			Filename: localFilename(s.ImageRef),
		})
	}
	return out
}

func localFilename(ref string) string {
	if path.Ext(ref) != "" {
		return ref
	}
	return ref + ".jpg"
}
