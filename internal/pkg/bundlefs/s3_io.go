package bundlefs

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/mattetti/filebuffer"
)

type s3Writer struct {
	client s3iface.S3API
	bucket string
	key    string
	buf    *filebuffer.Buffer
}

func (s *s3Writer) Write(p []byte) (n int, err error) {
	n, err = s.buf.Write(p)
	return n, err
}

func (s *s3Writer) Close() error {
	s.buf.Seek(0, io.SeekStart)
	input := &s3.PutObjectInput{
		Body:   s.buf,
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	}
	_, err := s.client.PutObject(input)
	return err
}

// s3Reader downloads an object with ranged GETs of at most chunkSize bytes.
type s3Reader struct {
	client    s3iface.S3API
	bucket    string
	key       string
	offset    int64
	chunkSize int64
	totalSize int64
}

func (s *s3Reader) loadNextChunk(dst io.Writer) error {
	size := min(s.chunkSize, s.totalSize-s.offset)
	params := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", s.offset, s.offset+size-1)),
	}
	output, err := s.client.GetObject(params)
	if err != nil {
		return err
	}
	defer output.Body.Close()

	n, err := io.Copy(dst, output.Body)
	s.offset += n
	if err != nil {
		return err
	}
	if n != size {
		return fmt.Errorf("short read from s3://%s/%s at offset %d: got %d of %d bytes", s.bucket, s.key, s.offset-n, n, size)
	}
	return nil
}

// readAll fetches the remainder of the object.
func (s *s3Reader) readAll() ([]byte, error) {
	buf := filebuffer.New(make([]byte, 0, s.totalSize-s.offset))
	for s.offset < s.totalSize {
		if err := s.loadNextChunk(buf); err != nil {
			return nil, err
		}
	}
	return buf.Buff.Bytes(), nil
}
