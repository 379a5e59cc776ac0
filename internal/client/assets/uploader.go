// Package assets stores profile uploads (resumes and profile images) and
// hands back an opaque reference the session store records on the user.
package assets

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/kodjobs/internal/client/models"
	"github.com/dmitrijs2005/kodjobs/internal/common"
)

// Uploader stores the bytes of an asset and returns a reference to them.
type Uploader interface {
	Upload(ctx context.Context, userID string, kind models.AssetKind, name string, r io.Reader) (ref string, err error)
}

var allowedExt = map[models.AssetKind]map[string]bool{
	models.AssetResume: {
		".pdf": true, ".doc": true, ".docx": true, ".txt": true,
	},
	models.AssetProfileImage: {
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	},
}

// Validate checks that name has an extension accepted for kind.
func Validate(kind models.AssetKind, name string) error {
	exts, ok := allowedExt[kind]
	if !ok {
		return fmt.Errorf("%w: %q", common.ErrUnknownAssetKind, kind)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !exts[ext] {
		return fmt.Errorf("%w: %q for %s", common.ErrUnsupportedAsset, ext, kind)
	}
	return nil
}

// ContentType guesses the MIME type from the file name.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
