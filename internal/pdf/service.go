package pdf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var errCancelled = errors.New("operation cancelled")

// Service は4種類のページ操作を実行します。
type Service struct {
	lib    Library
	reveal Revealer
	logger *logrus.Logger
}

// NewService は Service を初期化します。reveal が nil の場合はフォルダを開きません。
func NewService(lib Library, reveal Revealer, logger *logrus.Logger) *Service {
	if reveal == nil {
		reveal = NoopRevealer{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{lib: lib, reveal: reveal, logger: logger}
}

// Merge は2つ以上のPDFを1つに結合します。
func (s *Service) Merge(inputs []string, outputDir string, out Reporter, cancel Canceller) *Result {
	return s.Run(Request{Operation: OperationMerge, Inputs: inputs, OutputDir: outputDir}, out, cancel)
}

// Delete は指定ページを取り除いたPDFを書き出します。
func (s *Service) Delete(inputs []string, outputDir string, ranges []string, out Reporter, cancel Canceller) *Result {
	return s.Run(Request{Operation: OperationDelete, Inputs: inputs, OutputDir: outputDir, Ranges: ranges}, out, cancel)
}

// Extract は指定ページだけを含むPDFを書き出します。
func (s *Service) Extract(inputs []string, outputDir string, ranges []string, out Reporter, cancel Canceller) *Result {
	return s.Run(Request{Operation: OperationExtract, Inputs: inputs, OutputDir: outputDir, Ranges: ranges}, out, cancel)
}

// Split は指定ページの直前で区切った複数のPDFを書き出します。
func (s *Service) Split(inputs []string, outputDir string, ranges []string, out Reporter, cancel Canceller) *Result {
	return s.Run(Request{Operation: OperationSplit, Inputs: inputs, OutputDir: outputDir, Ranges: ranges}, out, cancel)
}

// Run は要求された操作を同期的に実行します。
//
// 結果はすべて out に送られ、最後のメッセージは必ず終端メッセージ
// (finished / cancelled / failed) になります。戻り値は正常終了時のみ非nilです。
func (s *Service) Run(req Request, out Reporter, cancel Canceller) (result *Result) {
	if out == nil {
		out = ReporterFunc(func(StatusMessage) {})
	}
	if cancel == nil {
		cancel = neverCancelled{}
	}
	log := s.logger.WithFields(logrus.Fields{
		"operation": req.Operation,
		"inputs":    len(req.Inputs),
		"outputDir": req.OutputDir,
	})

	fail := func(err *Error) *Result {
		log.WithError(err).Warn("operation failed")
		out.Report(failedMessage(err))
		return nil
	}

	defer func() {
		if p := recover(); p != nil {
			result = fail(newError(CodePDFIO, "An error occurred", fmt.Errorf("%v", p)))
		}
	}()

	spec, ok := operations[req.Operation]
	if !ok {
		return fail(newError(CodeInvalidInput, fmt.Sprintf("Unsupported operation: %q.", req.Operation), nil))
	}

	out.Report(infoMessage(describeRequest(req, spec.needsRanges)))

	if err := spec.checkInputs(len(req.Inputs)); err != nil {
		return fail(err)
	}

	r := &run{
		svc:      s,
		req:      req,
		out:      out,
		cancel:   cancel,
		progress: newProgressTracker(out),
		result:   &Result{Operation: req.Operation},
		log:      log,
	}

	path, err := OutputPath(req.Inputs, req.OutputDir, spec.firstSuffix())
	if err != nil {
		return fail(asError(err))
	}
	r.outputPath = path

	if spec.needsRanges {
		r.pages = ParsePageRanges(req.Ranges, out)
		if len(r.pages) == 0 {
			return fail(newError(CodeInvalidInput, "No valid pages were specified.", nil))
		}
	}

	r.progress.report(stageLoad, 0)
	log.Debug("operation started")

	if err := spec.execute(r); err != nil {
		if errors.Is(err, errCancelled) {
			log.Info("operation cancelled")
			out.Report(StatusMessage{Kind: KindCancelled, Text: spec.cancelText})
			return nil
		}
		return fail(asError(err))
	}

	r.progress.report(stageWrite, 100)

	if err := s.reveal.Reveal(req.OutputDir); err != nil {
		log.WithError(err).Warn("failed to reveal output folder")
		out.Report(warningMessage(newError(CodeRevealFailed, "Could not open the output folder", err)))
	}

	log.WithField("outputs", len(r.result.Outputs)).Info("operation finished")
	out.Report(StatusMessage{Kind: KindFinished, Text: FinishedText})
	return r.result
}

// asError はライブラリ等のエラーを汎用の PDF_IO エラーに包みます。
func asError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return newError(CodePDFIO, "An error occurred", err)
}

func describeRequest(req Request, withRanges bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Starting %s.\nInput PDFs: %s\nOutput folder: %s", req.Operation, strings.Join(req.Inputs, ", "), req.OutputDir)
	if withRanges {
		fmt.Fprintf(&b, "\nPage ranges: %s", strings.Join(req.Ranges, ", "))
	}
	return b.String()
}
