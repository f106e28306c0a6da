package models

// URLTypeUpload marks a resource whose file was stored in the FileStore, as
// opposed to one that only links to an external URL.
const URLTypeUpload = "upload"

// Resource is the subset of CKAN's resource table the migration reads.
type Resource struct {
	ID      string  `gorm:"column:id;primaryKey"`
	URL     *string `gorm:"column:url"`
	URLType *string `gorm:"column:url_type"`
}

func (Resource) TableName() string {
	return "resource"
}

// IsUpload reports whether the resource was uploaded and still carries a
// non-empty url.
func (r Resource) IsUpload() bool {
	return r.URLType != nil && *r.URLType == URLTypeUpload && r.URL != nil && *r.URL != ""
}
