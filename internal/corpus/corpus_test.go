package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sessionXML = `<?xml version="1.0" encoding="UTF-8"?>
<TEI xmlns="http://www.tei-c.org/ns/1.0" xml:lang="ro">
  <teiHeader>
    <profileDesc>
      <settingDesc>
        <setting>
          <name type="address">Palatul Parlamentului</name>
          <date when="2019-12-02">2 decembrie 2019</date>
        </setting>
      </settingDesc>
    </profileDesc>
  </teiHeader>
  <text>
    <body>
      <div type="debateSection">
        <u who="#IonPopescu" xml:id="u1">
          <seg xml:id="u1.s1">Noi vom vota acest proiect.</seg>
          <seg xml:id="u1.s2">Vom vedea rezultatul.</seg>
        </u>
        <note type="time">Ora 10:00</note>
        <u who="#MariaIonescu" xml:id="u2">
          <seg xml:id="u2.s1">Nu avem nimic de adăugat.</seg>
        </u>
        <u who="#IonPopescu" xml:id="u3">
          <seg xml:id="u3.s1">Vom reveni.</seg>
        </u>
      </div>
    </body>
  </text>
</TEI>
`

func writeSession(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write session file: %v", err)
	}
	return path
}

func TestListSessionFiles(t *testing.T) {
	dir := t.TempDir()
	root := writeSession(t, dir, "ParlaMint-RO.xml", "<root/>")
	writeSession(t, dir, "ParlaMint-RO_2019-12-02.xml", "<a/>")
	writeSession(t, dir, "ParlaMint-RO_2019-11-20.xml", "<b/>")
	writeSession(t, dir, "ParlaMint-RO_2019-12-02.ana.xml", "<c/>")
	writeSession(t, dir, "README.txt", "not xml")

	files, err := ListSessionFiles(root)
	if err != nil {
		t.Fatalf("list session files: %v", err)
	}
	want := []string{
		filepath.Join(dir, "ParlaMint-RO_2019-11-20.xml"),
		filepath.Join(dir, "ParlaMint-RO_2019-12-02.xml"),
	}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("file %d: got %q, want %q", i, files[i], want[i])
		}
	}
}

func TestParseSession(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "session.xml", sessionXML)

	session, err := ParseSession(path)
	if err != nil {
		t.Fatalf("parse session: %v", err)
	}
	if got := session.Date.Format("2006-01-02"); got != "2019-12-02" {
		t.Fatalf("unexpected session date %q", got)
	}
	if len(session.Utterances) != 3 {
		t.Fatalf("expected 3 utterances, got %d", len(session.Utterances))
	}
	first := session.Utterances[0]
	if first.Speaker != "#IonPopescu" {
		t.Fatalf("unexpected speaker %q", first.Speaker)
	}
	if first.Text != "Noi vom vota acest proiect.Vom vedea rezultatul." {
		t.Fatalf("unexpected utterance text %q", first.Text)
	}
	if session.Utterances[1].Speaker != "#MariaIonescu" {
		t.Fatalf("unexpected second speaker %q", session.Utterances[1].Speaker)
	}
	if session.Utterances[2].Speaker != "#IonPopescu" {
		t.Fatalf("repeated speakers must not be merged: %+v", session.Utterances[2])
	}
}

func TestParseSessionMissingDate(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "nodate.xml",
		`<TEI xmlns="http://www.tei-c.org/ns/1.0"><text><body/></text></TEI>`)

	_, err := ParseSession(path)
	if !errors.Is(err, ErrNoSessionDate) {
		t.Fatalf("expected ErrNoSessionDate, got %v", err)
	}
}

func TestParseSessionMalformedDate(t *testing.T) {
	dir := t.TempDir()
	path := writeSession(t, dir, "baddate.xml",
		`<TEI xmlns="http://www.tei-c.org/ns/1.0"><teiHeader><settingDesc><setting>`+
			`<date when="02.12.2019"/>`+
			`</setting></settingDesc></teiHeader></TEI>`)

	_, err := ParseSession(path)
	if err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
