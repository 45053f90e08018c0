// Package journal turns an uploaded HTML file into a student journal entry.
//
// # Pipeline
//
// The flow has three stages:
//
//  1. Annotate: every element of the raw HTML gets an inline Times New Roman
//     style (14pt for tags starting with "h", 12pt otherwise).
//  2. Compose: a Document is assembled from the student identity, the raw
//     source and the visible text of the annotated markup.
//  3. Export: the Document is written as DOCX, and optionally converted to PDF
//     by an external converter (LibreOffice by default, headless Chrome as an
//     alternative).
//
// # Quick Start
//
//	annotated, err := journal.Annotate(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, err := journal.Compose(journal.Student{ID: "1001", Name: "Ada"}, raw, annotated)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	exp, err := journal.NewExporter(journal.WithTimeout(time.Minute))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	file, err := exp.ExportFixedLayout(ctx, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer file.Cleanup()
//
// # Errors
//
// Conversion failures of any kind (missing binary, non-zero exit, timeout,
// missing output) wrap ErrConversionUnavailable. Temporary file failures wrap
// ErrIOFailure. Use errors.Is to branch on them.
//
// # Concurrency
//
// Annotate and Compose are pure functions. An Exporter is safe for concurrent
// use; converter invocations are bounded by its ConverterPool.
package journal
