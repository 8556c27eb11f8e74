package document

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/FormVault/formvault/pkg/mapping"
	"github.com/google/uuid"
)

// FillResult pairs the resolved mappings with the target fields nothing in
// the document could satisfy, so callers can render a partial form.
type FillResult struct {
	Mappings []mapping.FieldMapping `json:"mappings"`
	Unmapped []string               `json:"unmapped"`
}

// Filler decrypts a stored document and maps its extracted fields onto a
// caller-supplied form schema.
type Filler struct {
	processor *Processor
	mapper    *mapping.Mapper
	logger    logrus.FieldLogger
}

func NewFiller(processor *Processor, mapper *mapping.Mapper, logger logrus.FieldLogger) *Filler {
	return &Filler{
		processor: processor,
		mapper:    mapper,
		logger:    logger,
	}
}

func (f *Filler) Fill(ctx context.Context, tenantID string, id uuid.UUID, targetFields []string) (*FillResult, error) {
	payload, err := f.processor.Load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	mappings := f.mapper.Map(targetFields, payload)

	mapped := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		mapped[m.TargetField] = struct{}{}
	}
	unmapped := make([]string, 0)
	for _, target := range targetFields {
		if _, ok := mapped[target]; !ok {
			unmapped = append(unmapped, target)
		}
	}

	f.logger.WithFields(logrus.Fields{
		"tenant_id":   tenantID,
		"document_id": id,
		"mapped":      len(mappings),
		"unmapped":    len(unmapped),
	}).Info("form fill")

	return &FillResult{Mappings: mappings, Unmapped: unmapped}, nil
}

// Suggest returns ranked candidate mappings for a single target field.
func (f *Filler) Suggest(ctx context.Context, tenantID string, id uuid.UUID, targetField string, limit int) ([]mapping.FieldMapping, error) {
	payload, err := f.processor.Load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return f.mapper.Suggestions(targetField, payload, limit), nil
}
