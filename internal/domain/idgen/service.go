package idgen

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shortid/internal/core/apperror"
	"shortid/pkg/logger"
	"shortid/pkg/shortid"
)

var tracer = otel.Tracer("shortid/idgen")

const (
	// retryLimit bounds how many times a transient overflow is retried
	// inside one request.
	retryLimit = 64
	retryDelay = 100 * time.Microsecond

	streamChunk = 1024
)

// Settings carries the per-deployment identity of the generator.
type Settings struct {
	Machine32 [4]byte
	Machine24 [3]byte
	Node      shortid.Node
	Epoch     shortid.Epoch
	MaxBatch  int
}

// Identifier is one issued identifier in text form.
type Identifier struct {
	Value string    `json:"id"`
	Time  time.Time `json:"time"`
}

// Decoded holds the fields recovered from an identifier.
type Decoded struct {
	Format    Format    `json:"format"`
	ID        string    `json:"id"`
	Time      time.Time `json:"time"`
	Timestamp uint64    `json:"timestamp"`
	Sequence  uint16    `json:"sequence"`
	Worker    *uint16   `json:"worker,omitempty"`
	Machine   string    `json:"machine,omitempty"`
	Node      string    `json:"node,omitempty"`
	Version   int       `json:"version,omitempty"`
	Variant   string    `json:"variant,omitempty"`
}

// ConvertRequest describes a width conversion.
type ConvertRequest struct {
	From Format
	To   Format
	ID   string
	// MachineHigh restores the byte dropped by the 96-bit layout on 96->128.
	MachineHigh byte
	// Machine is the hex machine id used when upgrading a 64-bit identifier.
	// Empty means the configured one.
	Machine string
}

// Service issues, decodes and converts identifiers.
type Service struct {
	gen      *shortid.Generator
	settings Settings
}

// NewService creates a Service.
func NewService(gen *shortid.Generator, settings Settings) *Service {
	if settings.MaxBatch < 1 {
		settings.MaxBatch = 1
	}
	return &Service{gen: gen, settings: settings}
}

// Settings returns the configured identity.
func (s *Service) Settings() Settings { return s.settings }

// Stats returns the generator's worker pool snapshot.
func (s *Service) Stats() shortid.Stats { return s.gen.Stats() }

// Generate issues count identifiers of the given format.
func (s *Service) Generate(ctx context.Context, format Format, count int) ([]Identifier, error) {
	ctx, span := tracer.Start(ctx, "idgen.generate",
		trace.WithAttributes(
			attribute.String("idgen.format", string(format)),
			attribute.Int("idgen.count", count),
		))
	defer span.End()

	if err := s.checkCount(count); err != nil {
		return nil, err
	}

	ids := make([]Identifier, 0, count)
	for i := 0; i < count; i++ {
		raw, err := s.next(ctx, format)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Warn(ctx, "identifier generation failed", "format", format, "issued", i, "error", err)
			return nil, apperror.FromGeneration(err)
		}
		ids = append(ids, s.identifier(format, raw))
	}
	logger.Debug(ctx, "identifiers issued", "format", format, "count", count)
	return ids, nil
}

// Stream writes count identifiers as raw fixed-width binary to w.
func (s *Service) Stream(ctx context.Context, format Format, count int, w io.Writer) error {
	ctx, span := tracer.Start(ctx, "idgen.stream",
		trace.WithAttributes(
			attribute.String("idgen.format", string(format)),
			attribute.Int("idgen.count", count),
		))
	defer span.End()

	if err := s.checkCount(count); err != nil {
		return err
	}

	buf := make([]byte, 0, streamChunk*format.Size())
	for i := 0; i < count; i++ {
		raw, err := s.next(ctx, format)
		if err != nil {
			span.RecordError(err)
			logger.Warn(ctx, "identifier stream aborted", "format", format, "written", i, "error", err)
			return apperror.FromGeneration(err)
		}
		buf = append(buf, raw...)
		if len(buf) == cap(buf) {
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("write identifiers: %w", err)
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write identifiers: %w", err)
		}
	}
	logger.Info(ctx, "identifier stream written", "format", format, "count", count)
	return nil
}

// Decode parses text in the given format and returns its fields.
func (s *Service) Decode(ctx context.Context, format Format, text string) (*Decoded, error) {
	_, span := tracer.Start(ctx, "idgen.decode",
		trace.WithAttributes(attribute.String("idgen.format", string(format))))
	defer span.End()

	switch format {
	case Format128, FormatUUID:
		id, err := shortid.Parse128(text)
		if err != nil {
			return nil, apperror.NewInvalidIdentifier(string(format), text, err)
		}
		u := id.UUID()
		d := &Decoded{
			Format:    format,
			ID:        id.String(),
			Time:      id.Time(),
			Timestamp: uint64(id.Timestamp()),
			Sequence:  id.Sequence(),
			Version:   int(u.Version()),
			Variant:   u.Variant().String(),
		}
		if format == FormatUUID {
			node := id.Node()
			d.Node = hex.EncodeToString(node[:])
		} else {
			w := uint16(id.Worker())
			m := id.Machine()
			d.Worker = &w
			d.Machine = hex.EncodeToString(m[:])
		}
		return d, nil

	case Format96:
		id, err := shortid.Parse96(text)
		if err != nil {
			return nil, apperror.NewInvalidIdentifier(string(format), text, err)
		}
		f := id.Fields()
		w := uint16(f.Worker)
		return &Decoded{
			Format:    format,
			ID:        id.String(),
			Time:      id.Time(s.settings.Epoch),
			Timestamp: f.Timestamp,
			Sequence:  f.Sequence,
			Worker:    &w,
			Machine:   hex.EncodeToString(f.Machine[:]),
		}, nil

	case Format64:
		id, err := shortid.Parse64(text)
		if err != nil {
			return nil, apperror.NewInvalidIdentifier(string(format), text, err)
		}
		f := id.Fields()
		w := uint16(f.Worker)
		return &Decoded{
			Format:    format,
			ID:        id.String(),
			Time:      id.Time(s.settings.Epoch),
			Timestamp: f.Timestamp,
			Sequence:  f.Sequence,
			Worker:    &w,
		}, nil
	}
	return nil, apperror.NewValidation(fmt.Sprintf("unknown format %q", format))
}

// Convert re-encodes an identifier in another width. Downgrades are lossy.
func (s *Service) Convert(ctx context.Context, req ConvertRequest) (string, error) {
	_, span := tracer.Start(ctx, "idgen.convert",
		trace.WithAttributes(
			attribute.String("idgen.from", string(req.From)),
			attribute.String("idgen.to", string(req.To)),
		))
	defer span.End()

	if req.From == FormatUUID || req.To == FormatUUID {
		return "", apperror.NewValidation("uuid identifiers carry no worker and cannot be converted")
	}
	if req.From == req.To {
		return "", apperror.NewValidation("source and target formats are the same")
	}

	machine := s.settings.Machine32
	if req.Machine != "" {
		m, err := parseMachine(req.Machine)
		if err != nil {
			return "", err
		}
		machine = m
	}

	out, err := s.convert(req, machine)
	if err != nil {
		if _, ok := apperror.AsAppError(err); !ok && isDecodeErr(err) {
			return "", apperror.NewInvalidIdentifier(string(req.From), req.ID, err)
		}
		return "", apperror.FromGeneration(err)
	}
	return out, nil
}

func (s *Service) convert(req ConvertRequest, machine [4]byte) (string, error) {
	epoch := s.settings.Epoch
	switch req.From {
	case Format128:
		id, err := shortid.Parse128(req.ID)
		if err != nil {
			return "", err
		}
		switch req.To {
		case Format96:
			out, err := id.To96(epoch)
			return out.String(), err
		case Format64:
			out, err := id.To64(epoch)
			return out.String(), err
		}
	case Format96:
		id, err := shortid.Parse96(req.ID)
		if err != nil {
			return "", err
		}
		switch req.To {
		case Format128:
			return id.To128(epoch, req.MachineHigh).String(), nil
		case Format64:
			out, err := id.To64()
			return out.String(), err
		}
	case Format64:
		id, err := shortid.Parse64(req.ID)
		if err != nil {
			return "", err
		}
		switch req.To {
		case Format128:
			return id.To128(epoch, machine).String(), nil
		case Format96:
			return id.To96([3]byte{machine[1], machine[2], machine[3]}).String(), nil
		}
	}
	return "", apperror.NewValidation(fmt.Sprintf("cannot convert %s to %s", req.From, req.To))
}

// next issues one identifier, retrying transient overflow until the clock
// catches up or ctx ends. A context error is returned wrapped so callers map
// it to a cancellation or timeout rather than an internal failure.
func (s *Service) next(ctx context.Context, format Format) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		raw, err := s.issue(format)
		if err == nil || !shortid.Retryable(err) || attempt >= retryLimit {
			return raw, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for clock after %d attempts: %w", attempt+1, ctx.Err())
		case <-time.After(retryDelay):
		}
	}
}

func (s *Service) issue(format Format) ([]byte, error) {
	switch format {
	case Format128:
		id, err := s.gen.Generate128(s.settings.Machine32)
		return id.Bytes(), err
	case Format96:
		id, err := s.gen.Generate96(s.settings.Machine24, s.settings.Epoch)
		return id.Bytes(), err
	case Format64:
		id, err := s.gen.Generate64(s.settings.Epoch)
		return id.Bytes(), err
	case FormatUUID:
		id, err := s.gen.GenerateShared(s.settings.Node)
		return id.Bytes(), err
	}
	return nil, apperror.NewValidation(fmt.Sprintf("unknown format %q", format))
}

func (s *Service) identifier(format Format, raw []byte) Identifier {
	switch format {
	case Format96:
		id, _ := shortid.FromBytes96(raw)
		return Identifier{Value: id.String(), Time: id.Time(s.settings.Epoch)}
	case Format64:
		id, _ := shortid.FromBytes64(raw)
		return Identifier{Value: id.String(), Time: id.Time(s.settings.Epoch)}
	default:
		id, _ := shortid.FromBytes128(raw)
		return Identifier{Value: id.String(), Time: id.Time()}
	}
}

func (s *Service) checkCount(count int) error {
	if count < 1 || count > s.settings.MaxBatch {
		return apperror.NewValidation(fmt.Sprintf("count must be between 1 and %d", s.settings.MaxBatch)).
			WithDetail("count", count)
	}
	return nil
}

func parseMachine(s string) ([4]byte, error) {
	var m [4]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(m) {
		return m, apperror.NewValidation("machine must be 8 hex digits").WithDetail("machine", s)
	}
	copy(m[:], b)
	return m, nil
}

func isDecodeErr(err error) bool {
	return errors.Is(err, shortid.ErrInvalidLength) || errors.Is(err, shortid.ErrMalformed)
}
