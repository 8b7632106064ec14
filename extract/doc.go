// Package extract turns resume files into plain text.
//
// A Registry maps lowercase file extensions to TextExtractor
// implementations. The default registry understands PDF, DOCX and
// plain text files:
//
//	reg, err := extract.NewRegistry(ctx)
//	if err != nil {
//		return err
//	}
//	if reg.Supports(path) {
//		text, err := reg.ExtractText(ctx, path)
//		...
//	}
//
// Extractors return core.ErrFileNotFound for missing files and
// core.ErrNoText when a document cannot be parsed or holds no text.
package extract
