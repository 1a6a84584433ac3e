package objects

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const prefix = "o"

type ObjectID uint32

// fmt.Stringer
func (p ObjectID) String() string {
	return fmt.Sprintf(prefix+"%X", uint32(p))
}

// For convinience marshal ObjectID as a string, rather than uint32
func (p *ObjectID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// For convinience unmarshal ObjectID from a string, rather than uint32
func (p *ObjectID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if len(s) > 0 {
		s := strings.TrimPrefix(s, prefix)
		d, err := strconv.ParseUint(s, 16, 32)
		if err != nil {
			return err
		}
		*p = ObjectID(d)
	}
	return nil
}

// FileType mirrors the device library's enumerated object format codes.
type FileType uint32

const (
	FileTypeFolder FileType = iota
	FileTypeText
	FileTypeHTML
	FileTypeImage
	FileTypeAudio
	FileTypeVideo
	FileTypeEbook
	FileTypeUnknown
)

// fmt.Stringer
func (t FileType) String() string {
	switch t {
	case FileTypeFolder:
		return "folder"
	case FileTypeText:
		return "text"
	case FileTypeHTML:
		return "html"
	case FileTypeImage:
		return "image"
	case FileTypeAudio:
		return "audio"
	case FileTypeVideo:
		return "video"
	case FileTypeEbook:
		return "ebook"
	default:
		return "unknown"
	}
}

// FileInfo describes a single object to be sent to the device. It is
// supplied by the caller and borrowed for the duration of a send call,
// fields are read but never modified.
type FileInfo struct {
	Name      string    `json:"file_name"`
	Oid       ObjectID  `json:"oid"`
	OidParent ObjectID  `json:"oidParent"`
	StorageID ObjectID  `json:"storage_id"`
	ObjSize   int64     `json:"size"`
	Type      FileType  `json:"file_type"`
	Modified  time.Time `json:"modified"`
}
