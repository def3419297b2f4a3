// Package pipeline orchestrates wallpaper generation from template lookup
// through rendering, publishing and chat delivery.
package pipeline

import (
	"context"
	"strings"

	"linewall/internal/catalog"
	"linewall/internal/compositor"
	"linewall/internal/moderation"
	"linewall/internal/pkg/errors"
	"linewall/internal/pkg/logger"
	"linewall/internal/ports"
)

// Stage identifies how far a generation request progressed.
type Stage string

const (
	StageValidating Stage = "validating"
	StageRendering  Stage = "rendering"
	StagePublishing Stage = "publishing"
	StageDelivering Stage = "delivering"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// Renderer rasterizes text onto a template image.
type Renderer interface {
	Render(ctx context.Context, tpl catalog.Template, text string) (*compositor.RenderedImage, error)
}

// AssetPublisher uploads rendered bytes and returns a public URL.
type AssetPublisher interface {
	Publish(ctx context.Context, data []byte, contentType, namingHint string) (ports.PublishedAsset, error)
}

// ResendEnqueuer accepts failed deliveries for later retry.
type ResendEnqueuer interface {
	EnqueueResend(ctx context.Context, recipientID, imageURL string) error
}

// DownloadRecorder tracks per-template download counts. Optional.
type DownloadRecorder interface {
	RecordDownload(ctx context.Context, templateID string) error
}

// GenerateRequest is one wallpaper generation job.
type GenerateRequest struct {
	TemplateID  string
	Text        string
	RecipientID string // LINE user ID
}

// Result reports the outcome of a generation run. Image is populated on
// publish failure so the caller can still hand bytes back for manual
// download. DeliveryErr is set when publishing succeeded but the chat
// push did not; that case is not a pipeline error.
type Result struct {
	Stage       Stage
	Image       *compositor.RenderedImage
	Asset       *ports.PublishedAsset
	Delivered   bool
	DeliveryErr error
}

// Pipeline wires the generation stages together.
type Pipeline struct {
	catalog   *catalog.Catalog
	renderer  Renderer
	publisher AssetPublisher
	pusher    ports.Pusher
	resend    ResendEnqueuer
	downloads DownloadRecorder
	log       *logger.Logger
}

// Deps holds the pipeline's collaborators. Resend and Downloads may be
// nil; the corresponding steps are skipped. A nil Pusher degrades every
// delivery to NOT_CONFIGURED.
type Deps struct {
	Catalog   *catalog.Catalog
	Renderer  Renderer
	Publisher AssetPublisher
	Pusher    ports.Pusher
	Resend    ResendEnqueuer
	Downloads DownloadRecorder
	Log       *logger.Logger
}

// New creates a Pipeline.
func New(deps Deps) *Pipeline {
	return &Pipeline{
		catalog:   deps.Catalog,
		renderer:  deps.Renderer,
		publisher: deps.Publisher,
		pusher:    deps.Pusher,
		resend:    deps.Resend,
		downloads: deps.Downloads,
		log:       deps.Log.WithComponent("pipeline"),
	}
}

// Generate runs the full pipeline for one request. Validation failures
// return before any rendering, publishing or network work happens.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	res := &Result{Stage: StageValidating}
	log := p.log.FromContext(ctx)

	tpl, err := p.validate(req)
	if err != nil {
		res.Stage = StageFailed
		return res, err
	}

	res.Stage = StageRendering
	img, err := p.renderer.Render(ctx, tpl, req.Text)
	if err != nil {
		log.LogError(ctx, "render failed", err, "template_id", tpl.ID)
		res.Stage = StageFailed
		return res, err
	}
	res.Image = img

	res.Stage = StagePublishing
	asset, err := p.publisher.Publish(ctx, img.Bytes, img.MimeType, tpl.ID)
	if err != nil {
		// The rendered image stays on the result so the caller can
		// offer it for manual download.
		log.LogError(ctx, "publish failed", err, "template_id", tpl.ID)
		res.Stage = StageFailed
		return res, err
	}
	res.Asset = &asset

	p.recordDownload(ctx, tpl.ID)

	res.Stage = StageDelivering
	if err := p.push(ctx, req.RecipientID, asset.URL); err != nil {
		// Publishing already succeeded, so a failed push degrades the
		// result instead of failing the whole request.
		log.Warn("delivery failed, wallpaper still available",
			"recipient", req.RecipientID, "url", asset.URL, "error", err.Error())
		res.DeliveryErr = err
		p.enqueueResend(ctx, req.RecipientID, asset.URL)
		res.Stage = StageDone
		return res, nil
	}

	res.Delivered = true
	p.notify(ctx, req.RecipientID, asset.URL)

	res.Stage = StageDone
	log.Info("wallpaper generated and delivered",
		"template_id", tpl.ID, "key", asset.ObjectKey, "recipient", req.RecipientID)
	return res, nil
}

// Resend pushes an already published wallpaper to a recipient again.
// Nothing is re-rendered or re-uploaded.
func (p *Pipeline) Resend(ctx context.Context, recipientID, imageURL string) error {
	if p.pusher == nil {
		return errors.NotConfigured("chat delivery")
	}
	if strings.TrimSpace(recipientID) == "" {
		return errors.ValidationField("recipientId", "recipient is required")
	}
	if strings.TrimSpace(imageURL) == "" {
		return errors.ValidationField("imageUrl", "image URL is required")
	}
	return p.pusher.PushImage(ctx, recipientID, imageURL, "")
}

func (p *Pipeline) validate(req GenerateRequest) (catalog.Template, error) {
	if err := moderation.ValidateText(req.Text); err != nil {
		return catalog.Template{}, err
	}
	if strings.TrimSpace(req.RecipientID) == "" {
		return catalog.Template{}, errors.ValidationField("recipientId", "recipient is required")
	}
	tpl, err := p.catalog.Lookup(req.TemplateID)
	if err != nil {
		// An unknown template is bad request input, not a missing
		// resource; callers see a validation rejection.
		if errors.IsNotFound(err) {
			return catalog.Template{}, errors.ValidationField("templateId", "unknown template: "+req.TemplateID)
		}
		return catalog.Template{}, err
	}
	return tpl, nil
}

func (p *Pipeline) push(ctx context.Context, recipientID, imageURL string) error {
	if p.pusher == nil {
		return errors.NotConfigured("chat delivery")
	}
	return p.pusher.PushImage(ctx, recipientID, imageURL, "")
}

// notify sends the "wallpaper ready" text after a successful image
// push. The image already arrived, so a failed notification only gets
// logged.
func (p *Pipeline) notify(ctx context.Context, recipientID, imageURL string) {
	if p.pusher == nil {
		return
	}
	text := "Your custom wallpaper is ready!\n\n" + imageURL
	if err := p.pusher.PushText(ctx, recipientID, text); err != nil {
		p.log.Warn("ready notification not sent", "recipient", recipientID, "error", err.Error())
	}
}

func (p *Pipeline) recordDownload(ctx context.Context, templateID string) {
	if p.downloads == nil {
		return
	}
	if err := p.downloads.RecordDownload(ctx, templateID); err != nil {
		// Statistics only, never fail the pipeline for them.
		p.log.Warn("download count not recorded", "template_id", templateID, "error", err.Error())
	}
}

func (p *Pipeline) enqueueResend(ctx context.Context, recipientID, imageURL string) {
	if p.resend == nil {
		return
	}
	if err := p.resend.EnqueueResend(ctx, recipientID, imageURL); err != nil {
		p.log.Warn("resend not enqueued", "recipient", recipientID, "error", err.Error())
	}
}
