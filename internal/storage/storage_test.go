package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveListDelete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStore(root)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "sponsors/gold", "2.png", strings.NewReader("b")))
	require.NoError(t, s.Save(ctx, "sponsors/gold", "1.png", strings.NewReader("a")))

	b, err := os.ReadFile(filepath.Join(root, "sponsors", "gold", "1.png"))
	require.NoError(t, err)
	assert.Equal(t, "a", string(b))

	names, err := s.List(ctx, "sponsors/gold")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.png", "2.png"}, names)

	rc, err := s.Open(ctx, "sponsors/gold", "2.png")
	require.NoError(t, err)
	b, err = io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "b", string(b))

	require.NoError(t, s.Delete(ctx, "sponsors/gold", "1.png"))
	assert.ErrorIs(t, s.Delete(ctx, "sponsors/gold", "1.png"), ErrNotFound)
	_, err = s.Open(ctx, "sponsors/gold", "1.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.List(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, "../etc", "x.png", strings.NewReader("")), ErrInvalidPath)
	assert.ErrorIs(t, s.Save(ctx, "club-images", "../x.png", strings.NewReader("")), ErrInvalidPath)
	assert.ErrorIs(t, s.Delete(ctx, "/abs", "x.png"), ErrInvalidPath)
	_, err := s.List(ctx, "a/../../b")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

type fakeS3 struct {
	objects map[string]string
	lastCT  string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = string(b)
	f.lastCT = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(b))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	prefix := aws.ToString(in.Prefix)
	for k := range f.objects {
		rest, ok := strings.CutPrefix(k, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestS3Store(t *testing.T) {
	f := &fakeS3{objects: map[string]string{}}
	s := NewS3Store(f, "assets")
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "club-images", "10.png", strings.NewReader("png")))
	require.NoError(t, s.Save(ctx, "club-images", "09.jpg", strings.NewReader("jpg")))
	require.NoError(t, s.Save(ctx, "news/news-photos", "1.gif", strings.NewReader("gif")))
	assert.Equal(t, "image/gif", f.lastCT)
	assert.Equal(t, "png", f.objects["club-images/10.png"])

	names, err := s.List(ctx, "club-images")
	require.NoError(t, err)
	assert.Equal(t, []string{"09.jpg", "10.png"}, names)

	rc, err := s.Open(ctx, "club-images", "10.png")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png", string(b))

	require.NoError(t, s.Delete(ctx, "club-images", "10.png"))
	_, ok := f.objects["club-images/10.png"]
	assert.False(t, ok)

	assert.ErrorIs(t, s.Delete(ctx, "club-images", "10.png"), ErrNotFound)
	_, err = s.Open(ctx, "club-images", "10.png")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Open(ctx, "club-images", "../x")
	assert.ErrorIs(t, err, ErrInvalidPath)

	assert.ErrorIs(t, s.Save(ctx, "..", "x", strings.NewReader("")), ErrInvalidPath)
}
