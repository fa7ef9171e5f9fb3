package diag

import "testing"

func TestBagLimitAndErrors(t *testing.T) {
	b := NewBag(2)

	if !b.Add(New(SevWarning, SchemaUnknownElement, "odd tag")) {
		t.Fatalf("first add must succeed")
	}
	if b.HasErrors() {
		t.Fatalf("warning alone must not count as error")
	}
	if !b.Add(NewError(RefUnresolvedType, "type-id 't9' unknown")) {
		t.Fatalf("second add must succeed")
	}
	if b.Add(NewError(IOCursor, "dropped")) {
		t.Fatalf("bag over limit must drop")
	}

	if !b.HasErrors() {
		t.Fatalf("expected an error diagnostic")
	}
	first := b.FirstError()
	if first == nil || first.Code != RefUnresolvedType {
		t.Fatalf("unexpected first error: %+v", first)
	}
}

func TestDiagnosticError(t *testing.T) {
	d := NewError(SchemaUnexpectedRoot, "expected 'abi-instr'").
		WithPath("/tmp/a.xml").
		WithElement("bogus")
	got := d.Error()
	want := "/tmp/a.xml: <bogus>: ERROR [SCH1001]: Unexpected document root element: expected 'abi-instr'"
	if got != want {
		t.Fatalf("error text mismatch:\n got %q\nwant %q", got, want)
	}
}
