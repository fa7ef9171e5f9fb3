package reader

import (
	"io"
	"os"

	"abix/internal/archive"
	"abix/internal/diag"
	"abix/internal/ir"
	"abix/internal/xmlcursor"
)

// readTranslationUnitFromInput parses one <abi-instr> document (or one
// <abi-instr> element inside a corpus) into tu. The cursor must sit on or
// before the element.
func readTranslationUnitFromInput(c *context, tu *ir.TranslationUnit) error {
	ok, err := c.advanceToElement()
	if err != nil {
		return err
	}
	if !ok {
		return c.errorf(diag.SchemaUnexpectedRoot, "document holds no element")
	}
	if c.cur.Name() != "abi-instr" {
		return c.errorf(diag.SchemaUnexpectedRoot, "expected <abi-instr>, found <%s>", c.cur.Name())
	}

	// Symbol-table ids are unique per translation unit.
	c.clearTypes()
	c.unit = tu

	if v, ok := c.cur.Attr("address-size"); ok && v != "" {
		tu.SetAddressSize(attrInt(c.cur, "address-size"))
	}
	if v, ok := c.cur.Attr("path"); ok {
		tu.SetPath(v)
	}

	// We just saw the top-most element: the global scope opens here.
	c.pushDecl(tu.GlobalScope())

	for {
		ok, err := c.advanceCursor()
		if err != nil {
			return err
		}
		if !ok {
			// Document exhausted: a lone <abi-instr/> is a valid,
			// empty translation unit.
			return nil
		}
		if c.currentDecl() == nil {
			// The cursor moved past this unit; in a corpus the next
			// <abi-instr> is now the current element.
			return nil
		}
		if c.cur.Kind() == xmlcursor.KindElement {
			if err := handleElement(c); err != nil {
				return err
			}
		}
	}
}

// readCorpusFromInput parses an <abi-corpus> document into corp.
func readCorpusFromInput(c *context, corp *ir.Corpus) error {
	ok, err := c.advanceToElement()
	if err != nil {
		return err
	}
	if !ok {
		return c.errorf(diag.SchemaUnexpectedRoot, "document holds no element")
	}
	if c.cur.Name() != "abi-corpus" {
		return c.errorf(diag.SchemaUnexpectedRoot, "expected <abi-corpus>, found <%s>", c.cur.Name())
	}

	if v, ok := c.cur.Attr("path"); ok {
		corp.SetPath(v)
	}

	// Move off the root; each iteration then consumes one <abi-instr>.
	if _, err := c.advanceCursor(); err != nil {
		return err
	}
	for {
		ok, err := c.advanceToElement()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		tu := ir.NewTranslationUnit("")
		if err := readTranslationUnitFromInput(c, tu); err != nil {
			return err
		}
		corp.Add(tu)
	}
}

// ReadTranslationUnitFromBuffer fills tu from an in-memory <abi-instr>
// document.
func ReadTranslationUnitFromBuffer(buf []byte, tu *ir.TranslationUnit) error {
	c := newContext(xmlcursor.FromBytes(buf), tu.Path())
	return readTranslationUnitFromInput(c, tu)
}

// TranslationUnitFromBuffer parses an in-memory <abi-instr> document and
// returns the translation unit, or nil with the parse failure.
func TranslationUnitFromBuffer(buf []byte) (*ir.TranslationUnit, error) {
	tu := ir.NewTranslationUnit("")
	if err := ReadTranslationUnitFromBuffer(buf, tu); err != nil {
		return nil, err
	}
	return tu, nil
}

// ReadTranslationUnitFromStream fills tu from a stream carrying an
// <abi-instr> document.
func ReadTranslationUnitFromStream(r io.Reader, tu *ir.TranslationUnit) error {
	c := newContext(xmlcursor.New(r), tu.Path())
	return readTranslationUnitFromInput(c, tu)
}

// TranslationUnitFromStream parses a stream carrying an <abi-instr>
// document.
func TranslationUnitFromStream(r io.Reader) (*ir.TranslationUnit, error) {
	tu := ir.NewTranslationUnit("")
	if err := ReadTranslationUnitFromStream(r, tu); err != nil {
		return nil, err
	}
	return tu, nil
}

// ReadTranslationUnitFromFile fills tu from the <abi-instr> document at
// path.
func ReadTranslationUnitFromFile(path string, tu *ir.TranslationUnit) error {
	f, err := os.Open(path)
	if err != nil {
		return diag.NewError(diag.IOCursor, err.Error()).WithPath(path)
	}
	defer f.Close()
	c := newContext(xmlcursor.New(f), path)
	return readTranslationUnitFromInput(c, tu)
}

// TranslationUnitFromFile parses the <abi-instr> document at path. The
// file path seeds the unit's path; the document's own path attribute
// overrides it.
func TranslationUnitFromFile(path string) (*ir.TranslationUnit, error) {
	tu := ir.NewTranslationUnit(path)
	if err := ReadTranslationUnitFromFile(path, tu); err != nil {
		return nil, err
	}
	return tu, nil
}

// ReadCorpusFromStream fills corp from a stream carrying an <abi-corpus>
// document.
func ReadCorpusFromStream(r io.Reader, corp *ir.Corpus) error {
	c := newContext(xmlcursor.New(r), corp.Path())
	return readCorpusFromInput(c, corp)
}

// CorpusFromStream parses a stream carrying an <abi-corpus> document.
func CorpusFromStream(r io.Reader) (*ir.Corpus, error) {
	corp := ir.NewCorpus("")
	if err := ReadCorpusFromStream(r, corp); err != nil {
		return nil, err
	}
	return corp, nil
}

// ReadCorpusFromFile fills corp from the <abi-corpus> XML document at
// path.
func ReadCorpusFromFile(path string, corp *ir.Corpus) error {
	f, err := os.Open(path)
	if err != nil {
		return diag.NewError(diag.IOCursor, err.Error()).WithPath(path)
	}
	defer f.Close()
	c := newContext(xmlcursor.New(f), path)
	return readCorpusFromInput(c, corp)
}

// CorpusFromFile parses the <abi-corpus> XML document at path. The file
// path becomes the corpus path when the document carries none.
func CorpusFromFile(path string) (*ir.Corpus, error) {
	corp := ir.NewCorpus("")
	if err := ReadCorpusFromFile(path, corp); err != nil {
		return nil, err
	}
	if corp.Path() == "" {
		corp.SetPath(path)
	}
	return corp, nil
}

// ReadCorpusFromArchive fills corp from a ZIP archive of per-unit
// <abi-instr> documents and returns the number of translation units
// successfully read. Entries that fail to read or parse are skipped.
// A negative count is returned when the archive cannot be opened.
func ReadCorpusFromArchive(path string, corp *ir.Corpus) (int, error) {
	ar, err := archive.Open(path)
	if err != nil {
		return -1, diag.NewError(diag.IOArchive, err.Error()).WithPath(path)
	}
	defer ar.Close()

	read := 0
	for i := 0; i < ar.Len(); i++ {
		data, err := ar.ReadEntry(i)
		if err != nil {
			continue
		}
		// The entry name seeds the unit path; the document's path
		// attribute wins when both are set.
		tu := ir.NewTranslationUnit(ar.Name(i))
		if err := ReadTranslationUnitFromBuffer(data, tu); err != nil {
			continue
		}
		corp.Add(tu)
		read++
	}
	return read, nil
}

// CorpusFromArchive opens the ZIP archive at path and returns the corpus
// read from it, or nil when the archive cannot be opened.
func CorpusFromArchive(path string) (*ir.Corpus, error) {
	corp := ir.NewCorpus(path)
	if _, err := ReadCorpusFromArchive(path, corp); err != nil {
		return nil, err
	}
	return corp, nil
}
