package java

import (
	"fmt"

	"github.com/okra-platform/contractgen/internal/codegen/writer"
	"github.com/okra-platform/contractgen/internal/model"
)

func (g *Generator) writeEnum(w *writer.Writer, e *model.Enum, im *imports) {
	g.writeDoc(w, docText(e.Javadoc))
	w.WriteBlock(fmt.Sprintf("public enum %s {", e.Name), "}", func() {
		for i, c := range e.Constants {
			if i > 0 {
				w.BlankLine()
			}
			if c.Renamed() {
				w.WriteLinef("@%s(%s)", im.use(serializedNameType), quote(c.Value))
			}
			if i < len(e.Constants)-1 {
				w.WriteLinef("%s,", c.Identifier)
			} else {
				w.WriteLine(c.Identifier)
			}
		}
	})
}
