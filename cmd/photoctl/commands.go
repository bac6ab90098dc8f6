package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/markdave123-py/PhotoAlbum/internal/app"
	"github.com/markdave123-py/PhotoAlbum/internal/apperrors"
	"github.com/markdave123-py/PhotoAlbum/internal/config"
	"github.com/markdave123-py/PhotoAlbum/internal/models"
	"github.com/markdave123-py/PhotoAlbum/internal/render"
	"github.com/markdave123-py/PhotoAlbum/internal/services"
)

const usage = `usage: photoctl <command> [flags] [args]

commands:
  upload  [-labels "a,b"] [-type mime] <file>   upload a photo
  search  <query>                               print matching photo URLs
  publish [query]                               upload a static gallery page to FRONTEND_BUCKET
`

const indexKey = "index.html"

var newClients = app.NewClients

type cli struct {
	cfg     *config.Config
	clients *app.Clients
	photos  *services.PhotoService
	gallery *render.Gallery
	logger  *slog.Logger
	stdout  io.Writer
}

// run dispatches one subcommand and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, l *slog.Logger, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	clients, err := newClients(ctx, cfg, l)
	if err != nil {
		fmt.Fprintf(stderr, "startup failed: %v\n", err)
		return 1
	}
	c := &cli{
		cfg:     cfg,
		clients: clients,
		photos:  app.NewPhotoService(cfg, clients, l),
		gallery: render.NewGallery(cfg.UploadBucket, l),
		logger:  l,
		stdout:  stdout,
	}

	var cmdErr error
	switch args[0] {
	case "upload":
		cmdErr = c.upload(ctx, args[1:])
	case "search":
		cmdErr = c.search(ctx, args[1:])
	case "publish":
		cmdErr = c.publish(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if cmdErr != nil {
		if errors.Is(cmdErr, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintln(stderr, cmdErr.Error())
		return 1
	}
	return 0
}

func (c *cli) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	labels := fs.String("labels", "", "custom labels sent as x-amz-meta-customLabels")
	contentType := fs.String("type", "", "content type, guessed from the extension when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := &services.UploadRequest{Labels: *labels, ContentType: *contentType}
	if path := fs.Arg(0); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		req.Filename = filepath.Base(path)
		req.Body = f
		if req.ContentType == "" {
			req.ContentType = mime.TypeByExtension(filepath.Ext(path))
		}
	}

	photo, err := c.photos.Upload(ctx, req)
	if err != nil {
		return failure("Upload failed", err)
	}
	c.gallery.Prepend(c.gallery.PreviewFor(photo.ObjectKey, photo.Labels))

	fmt.Fprintf(c.stdout, "Upload successful: %s\n", photo.ObjectKey)
	return c.gallery.WriteText(c.stdout)
}

func (c *cli) search(ctx context.Context, args []string) error {
	items, err := c.photos.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return failure("Search failed", err)
	}
	c.gallery.Replace(items)
	return c.gallery.WriteText(c.stdout)
}

// publish renders the gallery without forms and stores it as the bucket
// website's index page. A query fills the gallery first.
func (c *cli) publish(ctx context.Context, args []string) error {
	if c.clients.Objects == nil {
		return errors.New("publish needs an object client: set SDK_BACKEND to s3 or minio")
	}

	query := strings.Join(args, " ")
	if strings.TrimSpace(query) != "" {
		items, err := c.photos.Search(ctx, query)
		if err != nil {
			return failure("Search failed", err)
		}
		c.gallery.Replace(items)
	}

	page, err := render.NewPage("Photo Album")
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := page.Render(&buf, c.gallery, render.PageData{Static: true}); err != nil {
		return err
	}

	_, err = c.clients.Objects.UploadFile(ctx, &models.UploadInput{
		Key:         indexKey,
		Bucket:      c.cfg.FrontendBucket,
		ContentType: "text/html; charset=utf-8",
		Data:        buf.Bytes(),
	})
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	c.logger.Info("frontend published", slog.String("bucket", c.cfg.FrontendBucket), slog.Int("bytes", buf.Len()))
	fmt.Fprintln(c.stdout, c.cfg.FrontendURL)
	return nil
}

func failure(prefix string, err error) error {
	if apperrors.IsUserError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", prefix, err)
}
