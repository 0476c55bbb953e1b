// Package worker turns parse requests consumed from the message queue into
// parse results published back to it.
package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/smiles-parser/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/smiles-parser/pkg/errors"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// SourceService identifies this worker in produced envelopes.
const SourceService = "smiles-worker"

// ParseRequest is the request-topic payload.
type ParseRequest struct {
	ID     string `json:"id"`
	SMILES string `json:"smiles"`
}

// ParseResult is the result-topic payload.  Exactly one of Molecule and Error
// is set.
type ParseResult struct {
	ID          string                  `json:"id"`
	SMILES      string                  `json:"smiles"`
	Molecule    *moltypes.MoleculeDTO   `json:"molecule,omitempty"`
	Error       *moltypes.ParseErrorDTO `json:"error,omitempty"`
	ProcessedAt time.Time               `json:"processed_at"`
}

// ParseWorker handles request messages.
type ParseWorker struct {
	service     molecule.Service
	publisher   kafka.Publisher
	resultTopic string
	logger      logging.Logger
}

// NewParseWorker creates a worker publishing to resultTopic.
func NewParseWorker(service molecule.Service, publisher kafka.Publisher, resultTopic string, logger logging.Logger) *ParseWorker {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ParseWorker{
		service:     service,
		publisher:   publisher,
		resultTopic: resultTopic,
		logger:      logger.Named("worker"),
	}
}

// Handle is a kafka.MessageHandler.
//
// A message that is not a valid request is permanent and goes to the
// dead-letter topic.  An invalid SMILES is a normal outcome published as a
// result carrying the error.  Everything else is returned for retry.
func (w *ParseWorker) Handle(ctx context.Context, msg *kafka.Message) error {
	req, err := DecodeParseRequest(msg)
	if err != nil {
		return kafka.Permanent(err)
	}

	result := ParseResult{ID: req.ID, SMILES: req.SMILES}
	dto, err := w.service.Parse(ctx, req.SMILES)
	switch {
	case err == nil:
		result.Molecule = dto
	case isInputError(err):
		result.Error = molecule.ErrorDTO(err)
	default:
		return err
	}
	result.ProcessedAt = time.Now().UTC()

	env, err := kafka.NewEventEnvelope(kafka.EventTypeParseResult, SourceService, result)
	if err != nil {
		return kafka.Permanent(err)
	}
	env.RequestID = req.ID
	out, err := env.ToMessage(w.resultTopic, []byte(req.ID))
	if err != nil {
		return kafka.Permanent(err)
	}
	if err := w.publisher.Publish(ctx, out); err != nil {
		return err
	}

	w.logger.Debug("Parse request handled",
		logging.String(logging.FieldRequestID, req.ID),
		logging.Bool("ok", result.Error == nil))
	return nil
}

// DecodeParseRequest decodes msg.  A request without an id takes the message
// key, or a fresh UUID when the key is empty too.
func DecodeParseRequest(msg *kafka.Message) (*ParseRequest, error) {
	var req ParseRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInputFormatInvalid, "malformed parse request")
	}
	if strings.TrimSpace(req.ID) == "" {
		req.ID = string(msg.Key)
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	return &req, nil
}

// isInputError reports whether err is a deterministic verdict on the input,
// which retrying cannot change.
func isInputError(err error) bool {
	return strings.HasPrefix(string(errors.GetCode(err)), "MOL_")
}

//Personal.AI order the ending
