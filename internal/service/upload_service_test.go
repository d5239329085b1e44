package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"github.com/liwu-next/internal/config"
	"github.com/liwu-next/internal/constants"
)

func newUploadTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Upload.MaxSize = 1 << 20
	return cfg
}

func buildUploadFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("form file count want 1 got %d", len(files))
	}
	return files[0]
}

func TestSaveFileWritesUnderSceneDirectory(t *testing.T) {
	t.Chdir(t.TempDir())
	svc := NewUploadService(newUploadTestConfig())

	header := buildUploadFileHeader(t, "letter.txt", "给小雨的一封信")
	ref, err := svc.SaveFile(header, constants.UploadSceneLetter)
	if err != nil {
		t.Fatalf("save file failed: %v", err)
	}
	if !strings.HasPrefix(ref.URL, "/uploads/"+constants.UploadSceneLetter+"/") {
		t.Fatalf("url not scoped to scene: %s", ref.URL)
	}
	if _, err := os.Stat(strings.TrimPrefix(ref.URL, "/")); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
}

func TestSaveFileReportsStorageFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	// 让存储目录被同名普通文件占位，落盘必然失败
	if err := os.WriteFile("uploads", []byte("x"), 0644); err != nil {
		t.Fatalf("block uploads dir failed: %v", err)
	}
	svc := NewUploadService(newUploadTestConfig())

	header := buildUploadFileHeader(t, "photo.txt", "data")
	if _, err := svc.SaveFile(header, constants.UploadScenePhoto); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("blocked storage want ErrUpstreamUnavailable got %v", err)
	}
}

func TestSaveFileRejectsOversizeAndExtension(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := newUploadTestConfig()
	cfg.Upload.MaxSize = 4
	svc := NewUploadService(cfg)

	header := buildUploadFileHeader(t, "big.txt", "more than four bytes")
	if _, err := svc.SaveFile(header, constants.UploadSceneCommon); !errors.Is(err, ErrMediaInvalid) {
		t.Fatalf("oversize upload want ErrMediaInvalid got %v", err)
	}

	cfg2 := newUploadTestConfig()
	cfg2.Upload.AllowedExtensions = []string{".png", ".jpg"}
	svc2 := NewUploadService(cfg2)
	header2 := buildUploadFileHeader(t, "note.exe", "data")
	if _, err := svc2.SaveFile(header2, constants.UploadSceneCommon); !errors.Is(err, ErrMediaInvalid) {
		t.Fatalf("bad extension want ErrMediaInvalid got %v", err)
	}
	if _, err := os.Stat("uploads"); !os.IsNotExist(err) {
		t.Fatalf("rejected upload must not touch storage")
	}
}
