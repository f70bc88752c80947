package dto

import "mime/multipart"

// ImageUpload names the storage folder for a batch of uploaded files.
type ImageUpload struct {
	Folder string
	Files  []*multipart.FileHeader
}
