package bundlefs

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	humanize "github.com/dustin/go-humanize"
	"github.com/mattetti/filebuffer"
	log "github.com/sirupsen/logrus"
)

// defaultChunkSize is the size of each ranged GET used to download an entry.
const defaultChunkSize = 64 * 1024 * 1024

// S3Bundle serves entries out of an S3 bucket, under an optional key prefix.
// Locations have the form s3://bucket/prefix.
type S3Bundle struct {
	location  string
	configs   []*aws.Config
	chunkSize int64

	client s3iface.S3API
	bucket string
	prefix string
}

// NewS3Bundle returns an initialized S3Bundle. configs are applied on top
// of the shared AWS configuration.
func NewS3Bundle(location string, configs ...*aws.Config) (*S3Bundle, error) {
	b := &S3Bundle{location: location, configs: configs}
	return b, b.Init()
}

func parseS3Location(location string) (bucket, prefix string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid S3 bundle location: %s", location)
	}

	prefix = strings.TrimPrefix(u.Path, "/")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return u.Host, prefix, nil
}

// Init creates the S3 client from the shared AWS configuration.
func (s *S3Bundle) Init() error {
	bucket, prefix, err := parseS3Location(s.location)
	if err != nil {
		return err
	}
	s.bucket = bucket
	s.prefix = prefix
	if s.chunkSize == 0 {
		s.chunkSize = defaultChunkSize
	}

	if s.client != nil {
		return nil
	}

	os.Setenv("AWS_SDK_LOAD_CONFIG", "true")
	sess, err := session.NewSession(s.configs...)
	if err != nil {
		return err
	}
	s.client = s3.New(sess)
	return nil
}

func (s *S3Bundle) key(name string) string {
	return s.prefix + name
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

// Open downloads the named object into memory.
func (s *S3Bundle) Open(name string) (Asset, error) {
	cleaned, err := cleanName("open", name)
	if err != nil {
		return nil, err
	}

	info, err := s.Stat(cleaned)
	if err != nil {
		return nil, err
	}

	reader := &s3Reader{
		client:    s.client,
		bucket:    s.bucket,
		key:       s.key(cleaned),
		chunkSize: s.chunkSize,
		totalSize: info.Size,
	}
	data, err := reader.readAll()
	if err != nil {
		if isNotFound(err) {
			return nil, notExist("open", name)
		}
		return nil, err
	}

	log.Debugf("Downloaded s3://%s/%s (%s)", s.bucket, reader.key, humanize.Bytes(uint64(len(data))))
	return &byteAsset{data: data}, nil
}

// Stat returns the size of the named object.
func (s *S3Bundle) Stat(name string) (EntryInfo, error) {
	cleaned, err := cleanName("stat", name)
	if err != nil {
		return EntryInfo{}, err
	}

	params := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(cleaned)),
	}
	result, err := s.client.HeadObject(params)
	if err != nil {
		if isNotFound(err) {
			return EntryInfo{}, notExist("stat", name)
		}
		return EntryInfo{}, err
	}

	return EntryInfo{
		Name: cleaned,
		Size: aws.Int64Value(result.ContentLength),
	}, nil
}

// ListEntries lists objects under the bundle prefix whose relative name
// matches pattern.
func (s *S3Bundle) ListEntries(pattern string) ([]EntryInfo, error) {
	pattern = strings.TrimSuffix(pattern, "/")
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}

	// Narrow the listing to the literal part of the pattern
	listPrefix := s.prefix
	if i := strings.IndexAny(pattern, "*?[\\"); i >= 0 {
		listPrefix += pattern[:i]
	} else {
		listPrefix += pattern
	}

	entries := make([]EntryInfo, 0)
	params := &s3.ListObjectsInput{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	}
	err := s.client.ListObjectsPages(params,
		func(page *s3.ListObjectsOutput, _ bool) bool {
			for _, object := range page.Contents {
				name := strings.TrimPrefix(aws.StringValue(object.Key), s.prefix)
				if name == "" || strings.HasSuffix(name, "/") {
					continue
				}
				if pattern != "" && !matchEntry(pattern, name) {
					continue
				}
				entries = append(entries, EntryInfo{
					Name: name,
					Size: aws.Int64Value(object.Size),
				})
			}
			return true
		})

	return entries, err
}

// OpenWriter returns a writer that uploads the named object on Close.
func (s *S3Bundle) OpenWriter(name string) (io.WriteCloser, error) {
	cleaned, err := cleanName("create", name)
	if err != nil {
		return nil, err
	}

	return &s3Writer{
		client: s.client,
		bucket: s.bucket,
		key:    s.key(cleaned),
		buf:    filebuffer.New(nil),
	}, nil
}
