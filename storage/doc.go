// Package storage abstracts where job resources live.
//
// The flat-file reader downloads its input through a Storage and the JSON
// writer uploads its finished document through one, so the same job runs
// against the local filesystem or an S3 bucket by configuration alone.
//
// Backends register themselves in init; import the ones you need:
//
//	import (
//	    _ "github.com/kbukum/personjob/storage/local"
//	    _ "github.com/kbukum/personjob/storage/s3"
//	)
//
//	store, err := storage.New(ctx, storage.Config{Provider: "local", BasePath: "./data"}, log)
package storage
