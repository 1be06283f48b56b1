package extract

// scanContinuation follows a strategy table that may continue past the
// page it started on. Scanning is bounded by the school's page range and
// the document length; page-read failures are logged and skipped.
//
// On a continuation page the outer goal table resumes with an empty first
// cell whose embedded table spills out as a second extracted table. When
// that second table's first row has an empty first or second cell, the page
// break split a row in half and the non-empty content belongs to the last
// strategy already collected. A split where both halves carry text cannot
// be told apart from two genuine rows and is accepted as two rows.
//
// The table is known to have ended when the outer table carries rows after
// the one holding the continuation. A table that ends exactly at a page
// bottom leaves no such trace, so scanning runs on; the range bound keeps
// that from wandering into another school's pages.
func (e *Extractor) scanContinuation(st *scanState, schoolName string, pageNum, endPage int, strategies []Strategy) []Strategy {
	for scan := pageNum + 1; scan < endPage && scan < e.doc.PageCount(); scan++ {
		tables, err := e.doc.PageTables(scan)
		if err != nil {
			e.log.Warn("extract.scan.page_unreadable", "school", schoolName, "page", scan+1, "error", err)
			continue
		}

		if len(tables) < 2 || len(tables[0].Rows) == 0 || tables[0].Rows[0].CleanCell(0) != "" {
			// No continuation layout on this page; keep scanning.
			continue
		}
		rows := tables[1].Rows

		if len(rows) > 0 && (rows[0].CleanCell(0) == "" || rows[0].CleanCell(1) == "") {
			if len(strategies) > 0 {
				last := &strategies[len(strategies)-1]
				last.Action = joinSpace(last.Action, rows[0].CleanCell(0))
				last.Measures = joinSpace(last.Measures, rows[0].CleanCell(1))
				e.log.Debug("extract.scan.merged_split_row", "school", schoolName, "page", scan+1)
			} else {
				e.log.Warn("extract.scan.orphan_split_row", "school", schoolName, "page", scan+1)
			}
			rows = rows[1:]
		}

		strategies = append(strategies, strategiesFromRows(rows)...)

		// Rows after the continuation in the outer table mean the strategy
		// table ended on this page.
		if len(tables[0].Rows) > 1 {
			e.log.Debug("extract.scan.table_end", "school", schoolName, "page", scan+1)
			break
		}
	}
	return strategies
}

func joinSpace(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
