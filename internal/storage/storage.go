package storage

import (
	"context"
	"fmt"
	"time"
)

// Uploader writes binary objects (KYC video/document, product images) and
// returns a publicly addressable URL.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// ObjectPath namespaces uploads by entity id and timestamp, e.g.
// kyc/store-42/1756380000_statement.pdf.
func ObjectPath(kind, entityID, filename string) string {
	return fmt.Sprintf("%s/%s/%d_%s", kind, entityID, time.Now().Unix(), filename)
}
