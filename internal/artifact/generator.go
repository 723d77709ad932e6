// Package artifact renders the case deliverables (SOAP note files, the CMS
// 1500 submission PDF, the claim workbook) and records them as case
// documents.
package artifact

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
	"github.com/amdal/case-copilot/internal/storage"
	"github.com/amdal/case-copilot/pkg/utils"
)

// DocumentStore records generated artifacts on the case's document log.
type DocumentStore interface {
	Append(ctx context.Context, d *entity.Document) error
}

// Generator writes artifacts through the file store and registers them as
// case documents.
type Generator struct {
	files  storage.FileStore
	docs   DocumentStore
	logger *zap.Logger
}

// NewGenerator creates an artifact generator.
func NewGenerator(files storage.FileStore, docs DocumentStore, logger *zap.Logger) *Generator {
	return &Generator{files: files, docs: docs, logger: logger}
}

// TextFile writes a plain-text artifact for the case.
func (g *Generator) TextFile(ctx context.Context, caseID, filename, content, docType string) (*entity.Document, error) {
	return g.write(ctx, caseID, filename, []byte(content), docType)
}

// PDF renders text as a single-page PDF artifact with a provider signature
// block.
func (g *Generator) PDF(ctx context.Context, caseID, filename, text string) (*entity.Document, error) {
	return g.write(ctx, caseID, filename, renderPDF(text), entity.DocTypeGeneratedPDF)
}

// ClaimWorkbook renders the claim summary workbook for the case. The case
// record and workflow state may be nil; the workbook simply carries fewer
// rows then.
func (g *Generator) ClaimWorkbook(ctx context.Context, caseID, filename string, c *entity.Case, state *entity.CaseState) (*entity.Document, error) {
	content, err := renderWorkbook(c, state, g.logger)
	if err != nil {
		return nil, fmt.Errorf("render claim workbook: %w", err)
	}
	return g.write(ctx, caseID, filename, content, entity.DocTypeGeneratedXLSX)
}

func (g *Generator) write(ctx context.Context, caseID, filename string, content []byte, docType string) (*entity.Document, error) {
	path, err := g.files.SaveFile(caseID, filename, content)
	if err != nil {
		return nil, fmt.Errorf("save artifact %s: %w", filename, err)
	}

	doc := &entity.Document{
		DocID:      utils.NewID("doc"),
		CaseID:     caseID,
		Name:       filename,
		Type:       docType,
		Path:       path,
		PublicURL:  g.files.PublicURL(caseID, filename),
		UploadedAt: time.Now().UTC(),
	}
	if err := g.docs.Append(ctx, doc); err != nil {
		return nil, fmt.Errorf("record artifact %s: %w", filename, err)
	}

	g.logger.Info("Artifact generated",
		zap.String("case_id", caseID),
		zap.String("name", filename),
		zap.String("type", docType))
	return doc, nil
}
