package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chatbot-cli/internal/attachment"
)

// loadImage 读取并校验 --image 指定的图片；相对路径基于 workdir。
func loadImage(ctx context.Context, path, workdir string) (attachment.Attachment, error) {
	resolved := path
	if !filepath.IsAbs(resolved) {
		if workdir == "" {
			if wd, err := os.Getwd(); err == nil {
				workdir = wd
			}
		}
		resolved = filepath.Join(workdir, resolved)
	}
	f, err := attachment.FromPath(resolved)
	if err != nil {
		return attachment.Attachment{}, fmt.Errorf("image %s: %w", path, err)
	}
	att, err := attachment.Encode(ctx, f)
	if err != nil {
		return attachment.Attachment{}, fmt.Errorf("image %s: %w", path, err)
	}
	log.WithField("image", att.Label()).Infof("image attached")
	return att, nil
}
