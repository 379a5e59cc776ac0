package models

import (
	"fmt"

	"github.com/dmitrijs2005/kodjobs/internal/common"
)

// AssetKind identifies an uploaded asset attached to a profile.
type AssetKind string

const (
	AssetResume       AssetKind = "resume"
	AssetProfileImage AssetKind = "profileImage"
)

// ParseAssetKind maps a user-supplied name to an AssetKind.
func ParseAssetKind(s string) (AssetKind, error) {
	switch AssetKind(s) {
	case AssetResume, AssetProfileImage:
		return AssetKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownAssetKind, s)
}
