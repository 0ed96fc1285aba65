package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/care-scheduler/internal/httperr"
	"github.com/BruksfildServices01/care-scheduler/internal/testutil"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadProfileImageIsNormalised(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "storage")
	mem := NewMemoryStore()
	svc := NewService(db, mem)

	f, err := svc.Upload(context.Background(), UploadInput{
		OrganizationID: seed.Org.ID,
		UploadedBy:     seed.Owner.ID,
		Bucket:         BucketProfileImages,
		FileName:       "me.png",
		Data:           pngBytes(t, 1024, 768),
	})
	require.NoError(t, err)
	require.Equal(t, "image/webp", f.ContentType)
	require.True(t, strings.HasSuffix(f.Key, ".webp"))

	data, ct, ok := mem.Get(f.Key)
	require.True(t, ok)
	require.Equal(t, "image/webp", ct)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 512, cfg.Width)
	require.Equal(t, 384, cfg.Height)

	url, err := svc.URL(context.Background(), seed.Org.ID, f.ID)
	require.NoError(t, err)
	require.Contains(t, url, f.Key)
}

func TestUploadRejects(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "reject")
	svc := NewService(db, NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{OrganizationID: seed.Org.ID, Bucket: BucketProfileImages, FileName: "a.txt", Data: []byte("hello world")})
	require.True(t, httperr.IsBusiness(err, "unsupported_file_type"))

	big := append([]byte("%PDF-1.4\n"), make([]byte, 11<<20)...)
	_, err = svc.Upload(ctx, UploadInput{OrganizationID: seed.Org.ID, Bucket: BucketDocuments, FileName: "a.pdf", Data: big})
	require.True(t, httperr.IsBusiness(err, "file_too_large"))

	_, err = svc.Upload(ctx, UploadInput{OrganizationID: seed.Org.ID, Bucket: "secrets", Data: []byte("x")})
	require.True(t, httperr.IsBusiness(err, "bucket_not_found"))

	_, err = NewService(db, nil).Upload(ctx, UploadInput{Bucket: BucketDocuments})
	require.True(t, httperr.IsBusiness(err, "storage_disabled"))
}

func TestUploadAndDeletePDF(t *testing.T) {
	db := testutil.NewDB(t)
	seed := testutil.SeedOrg(t, db, "pdf")
	mem := NewMemoryStore()
	svc := NewService(db, mem)
	ctx := context.Background()

	f, err := svc.Upload(ctx, UploadInput{
		OrganizationID: seed.Org.ID,
		Bucket:         BucketCareLogs,
		FileName:       "vitals.pdf",
		Data:           []byte("%PDF-1.4\n1 0 obj\n"),
	})
	require.NoError(t, err)
	require.Equal(t, "application/pdf", f.ContentType)

	_, err = svc.URL(ctx, seed.Org.ID+1, f.ID)
	require.True(t, httperr.IsBusiness(err, "file_not_found"))

	require.NoError(t, svc.Delete(ctx, seed.Org.ID, f.ID))
	_, _, ok := mem.Get(f.Key)
	require.False(t, ok)
}
