// Package upload sends rendered clips to a remote asset service.
//
// NewUploader returns an HTTP implementation when uploads are enabled and a
// noop implementation otherwise, so callers never branch on configuration.
// The HTTP uploader posts each file as multipart/form-data with an optional
// bearer token and project field, and returns the asset identifier the
// service reports.
package upload
