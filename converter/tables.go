package converter

import (
	"sort"
	"strings"
)

// convertTable renders a delimited table block. Cell handlers accumulate
// option flags in the table scope; the flags become the attribute line
// once the whole table has been walked.
func (s *state) convertTable(node Node) (string, error) {
	prev := s.tableOpts
	s.tableOpts = map[string]bool{}
	defer func() { s.tableOpts = prev }()

	content, err := s.convertChildren(node, true)
	if err != nil {
		return "", err
	}

	attrs := ""
	if len(s.tableOpts) > 0 {
		flags := make([]string, 0, len(s.tableOpts))
		for opt := range s.tableOpts {
			flags = append(flags, "%"+opt)
		}
		sort.Strings(flags)
		attrs = "[" + strings.Join(flags, ",") + "]\n"
	}

	return "\n" + attrs + "|===\n" + content + "|===\n", nil
}

// convertTableRow emits the row's cells on one line. Whitespace between
// cell elements is dropped so only cell content reaches the output.
func (s *state) convertTableRow(node Node) (string, error) {
	content, err := s.convertChildren(node, true)
	if err != nil {
		return "", err
	}
	return content + "\n", nil
}

func (s *state) convertTableCell(node Node) (string, error) {
	content, err := s.convertChildren(node, false)
	if err != nil {
		return "", err
	}
	return "|" + strings.TrimRight(content, " \t\n"), nil
}

// convertTableHeaderCell records that the enclosing table needs a header
// flag, then renders like any other cell.
func (s *state) convertTableHeaderCell(node Node) (string, error) {
	if s.tableOpts != nil {
		s.tableOpts["header"] = true
	}
	return s.convertTableCell(node)
}

// convertTableStructure passes column and row-group wrappers through.
// TODO: translate col width attributes into a cols spec on the table
// attribute line.
func (s *state) convertTableStructure(node Node) (string, error) {
	return s.convertChildren(node, true)
}
