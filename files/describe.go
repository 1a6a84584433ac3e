package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"mtpstub/objects"
)

var typesByExt = map[string]objects.FileType{
	".txt":  objects.FileTypeText,
	".htm":  objects.FileTypeHTML,
	".html": objects.FileTypeHTML,
	".jpg":  objects.FileTypeImage,
	".jpeg": objects.FileTypeImage,
	".png":  objects.FileTypeImage,
	".gif":  objects.FileTypeImage,
	".mp3":  objects.FileTypeAudio,
	".wav":  objects.FileTypeAudio,
	".mp4":  objects.FileTypeVideo,
	".azw3": objects.FileTypeEbook,
	".mobi": objects.FileTypeEbook,
	".kfx":  objects.FileTypeEbook,
	".epub": objects.FileTypeEbook,
}

// TypeByName maps a file name to the device library format code based on
// its extension, falling back to the unknown code.
func TypeByName(name string) objects.FileType {
	if t, ok := typesByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return objects.FileTypeUnknown
}

// Describe builds a transfer descriptor for a local file the same way a
// real driver would before sending it to the device. Identifiers are left
// zero, the device side assigns them.
func Describe(path string, log *zap.Logger) (*objects.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("unable to stat local file '%s': %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("local path '%s' is not a regular file", path)
	}

	fi := &objects.FileInfo{
		Name:     info.Name(),
		ObjSize:  info.Size(),
		Type:     TypeByName(info.Name()),
		Modified: info.ModTime(),
	}
	log.Debug("Described local file", zap.String("path", path), zap.Any("descriptor", fi))
	return fi, nil
}
