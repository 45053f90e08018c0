// Package docx writes minimal WordprocessingML (.docx) documents.
//
// A .docx file is a ZIP archive of XML parts. The builder only emits what a
// journal export needs:
//
//	[Content_Types].xml
//	_rels/.rels
//	docProps/core.xml
//	word/document.xml
//	word/styles.xml
//	word/_rels/document.xml.rels
//
// Headings map to the built-in "Title" (level 0) and "HeadingN" styles;
// runs and paragraphs carry explicit font and size properties so the output
// does not depend on the reader's default template.
//
//	b := docx.New()
//	b.AddHeading("Ada (1001)", 0)
//	b.AddRun("<p>hi</p>", docx.Font{Family: "Times New Roman", SizePt: 10})
//	data, err := b.Bytes()
package docx
