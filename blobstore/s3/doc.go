// Package s3 provides Amazon S3 implementations of blobstore.BlobStore.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := s3.NewFromConfig(cfg)
//	store := kcs3.NewStore(client, "my-bucket", "kclust/")
//
// Store writes blobs with CRC32C checksums and streams large uploads through
// the multipart upload manager. DDBCommitStore wraps a Store and keeps the
// CURRENT snapshot pointer in DynamoDB so that concurrent writers never lose
// a commit.
package s3
