package main

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/kclust/blobstore"
	minioblob "github.com/hupe1980/kclust/blobstore/minio"
	s3blob "github.com/hupe1980/kclust/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	schemeMemory = "mem"
	schemeFile   = "file"
	schemeS3     = "s3"
	schemeS3DDB  = "s3+ddb"
	schemeMinIO  = "minio"
)

// storeLocation is a parsed store URI.
type storeLocation struct {
	scheme string
	// path is the local root for file stores.
	path string
	// host is the MinIO endpoint.
	host   string
	bucket string
	prefix string
	table  string
	secure bool
}

// parseStoreURI accepts mem://, file:///dir or a plain path,
// s3://bucket/prefix, s3+ddb://bucket/prefix?table=T and
// minio://host:port/bucket/prefix[?secure=false].
func parseStoreURI(uri string) (storeLocation, error) {
	if uri == "" {
		return storeLocation{}, fmt.Errorf("empty store URI")
	}
	if !strings.Contains(uri, "://") {
		return storeLocation{scheme: schemeFile, path: filepath.Clean(uri)}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return storeLocation{}, fmt.Errorf("invalid store URI %q: %w", uri, err)
	}

	loc := storeLocation{scheme: u.Scheme}
	switch u.Scheme {
	case schemeMemory:
		return loc, nil

	case schemeFile:
		loc.path = filepath.FromSlash(u.Host + u.Path)
		if loc.path == "" {
			return loc, fmt.Errorf("store URI %q has no path", uri)
		}
		return loc, nil

	case schemeS3, schemeS3DDB:
		loc.bucket = u.Host
		loc.prefix = strings.Trim(u.Path, "/")
		if loc.bucket == "" {
			return loc, fmt.Errorf("store URI %q has no bucket", uri)
		}
		if u.Scheme == schemeS3DDB {
			loc.table = u.Query().Get("table")
			if loc.table == "" {
				return loc, fmt.Errorf("store URI %q needs a table parameter", uri)
			}
		}
		return loc, nil

	case schemeMinIO:
		loc.host = u.Host
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		loc.bucket = bucket
		loc.prefix = strings.Trim(prefix, "/")
		if loc.host == "" || loc.bucket == "" {
			return loc, fmt.Errorf("store URI %q needs an endpoint and a bucket", uri)
		}
		loc.secure = true
		if s := u.Query().Get("secure"); s != "" {
			if loc.secure, err = strconv.ParseBool(s); err != nil {
				return loc, fmt.Errorf("store URI %q: secure: %w", uri, err)
			}
		}
		return loc, nil

	default:
		return loc, fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
}

// openStore connects to the store at uri. A positive cacheBytes wraps it in
// an LRU read cache.
func openStore(ctx context.Context, uri string, cacheBytes int64) (blobstore.BlobStore, error) {
	loc, err := parseStoreURI(uri)
	if err != nil {
		return nil, err
	}

	var store blobstore.BlobStore
	switch loc.scheme {
	case schemeMemory:
		store = blobstore.NewMemoryStore()

	case schemeFile:
		store = blobstore.NewLocalStore(loc.path)

	case schemeS3, schemeS3DDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		s3Store := s3blob.NewStore(awss3.NewFromConfig(awsCfg), loc.bucket, loc.prefix)
		if loc.scheme == schemeS3DDB {
			store = s3blob.NewDDBCommitStore(s3Store, dynamodb.NewFromConfig(awsCfg), loc.table, "")
		} else {
			store = s3Store
		}

	case schemeMinIO:
		creds := credentials.NewChainCredentials([]credentials.Provider{
			&credentials.EnvMinio{},
			&credentials.EnvAWS{},
		})
		client, err := minio.New(loc.host, &minio.Options{Creds: creds, Secure: loc.secure})
		if err != nil {
			return nil, fmt.Errorf("create MinIO client: %w", err)
		}
		store = minioblob.NewStore(client, loc.bucket, loc.prefix)
	}

	if cacheBytes > 0 {
		store = blobstore.NewCachingStore(store, cacheBytes)
	}
	return store, nil
}
