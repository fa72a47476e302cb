// Package site stages a client's merged document and images into the static
// site project and optionally runs its build.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"siteforge/internal/store"
)

type Stager struct {
	store        *store.Store
	siteDir      string
	buildCommand string
	logger       *zap.Logger
}

func NewStager(st *store.Store, siteDir, buildCommand string, logger *zap.Logger) *Stager {
	return &Stager{
		store:        st,
		siteDir:      siteDir,
		buildCommand: buildCommand,
		logger:       logger.Named("site"),
	}
}

// Report describes one staging run.
type Report struct {
	DataPath    string `json:"data_path"`
	ImagesDir   string `json:"images_dir"`
	ImageCount  int    `json:"image_count"`
	Built       bool   `json:"built"`
	BuildOutput string `json:"build_output,omitempty"`
}

// Stage copies clients/<slug>/business.json to <site>/src/data/business.json,
// replaces <site>/src/assets/images with the client's images and runs the
// build command when one is configured.
func (s *Stager) Stage(ctx context.Context, slug string) (*Report, error) {
	fs := s.store.Fs()
	merged, err := s.store.MergedPath(slug)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, merged)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s (run merge first)", store.ErrNotFound, merged)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", merged, err)
	}

	report := &Report{
		DataPath:  filepath.Join(s.siteDir, "src", "data", "business.json"),
		ImagesDir: filepath.Join(s.siteDir, "src", "assets", "images"),
	}
	if err := fs.MkdirAll(filepath.Dir(report.DataPath), 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Dir(report.DataPath), err)
	}
	if err := afero.WriteFile(fs, report.DataPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", report.DataPath, err)
	}
	s.logger.Info("Copied business.json", zap.String("to", report.DataPath))

	// Wipe first so images from the previous client never leak into this build.
	if err := fs.RemoveAll(report.ImagesDir); err != nil {
		return nil, fmt.Errorf("clear %s: %w", report.ImagesDir, err)
	}
	if err := fs.MkdirAll(report.ImagesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", report.ImagesDir, err)
	}
	clientImages, err := s.store.ImagesDir(slug)
	if err != nil {
		return nil, err
	}
	report.ImageCount, err = copyDir(fs, clientImages, report.ImagesDir)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Staged images", zap.String("from", clientImages), zap.Int("count", report.ImageCount))

	if s.buildCommand == "" {
		return report, nil
	}
	out, err := s.build(ctx, slug)
	report.BuildOutput = out
	if err != nil {
		return report, err
	}
	report.Built = true
	return report, nil
}

func (s *Stager) build(ctx context.Context, slug string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", s.buildCommand)
	cmd.Dir = s.siteDir
	cmd.Env = append(os.Environ(), "CLIENT_ID="+slug)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.logger.Info("Running build", zap.String("command", s.buildCommand), zap.String("client", slug))
	if err := cmd.Run(); err != nil {
		s.logger.Error("Build failed", zap.String("stderr", stderr.String()), zap.Error(err))
		return stdout.String(), fmt.Errorf("build command failed: %w (stderr: %s)", err, stderr.String())
	}
	s.logger.Info("Build completed")
	return stdout.String(), nil
}

// copyDir copies the regular files under src into dst. A missing src copies
// nothing.
func copyDir(fs afero.Fs, src, dst string) (int, error) {
	if ok, _ := afero.DirExists(fs, src); !ok {
		return 0, nil
	}
	count := 0
	err := afero.Walk(fs, src, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fs.MkdirAll(target, 0o755)
		}
		data, err := afero.ReadFile(fs, p)
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fs, target, data, 0o644); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return count, nil
}
