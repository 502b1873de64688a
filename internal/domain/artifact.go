package domain

const VCardContentType = "text/vcard; charset=utf-8"

// ExportArtifact is a generated .vcf file ready for delivery.
type ExportArtifact struct {
	Filename    string
	ContentType string
	Body        []byte
}
