package driveclient

import (
	gdrive "google.golang.org/api/drive/v3"

	"drivesync/domain/drive"
)

// toFileRecord converts an SDK file into the domain projection persisted by
// the pipeline. Derived fields (content, created_by) start empty.
func toFileRecord(f *gdrive.File) *drive.FileRecord {
	owners := make([]drive.Owner, 0, len(f.Owners))
	for _, o := range f.Owners {
		if o == nil {
			continue
		}
		owners = append(owners, drive.Owner{
			DisplayName:  o.DisplayName,
			EmailAddress: o.EmailAddress,
		})
	}

	return &drive.FileRecord{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		CreatedTime:  f.CreatedTime,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
		WebViewLink:  f.WebViewLink,
		Owners:       owners,
		Parents:      f.Parents,
		DriveID:      f.DriveId,
	}
}
