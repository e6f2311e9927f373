package binding

import "storefront-app/internal/domain/pages"

// ApplyBindingsToPage resolves the page's own text fields and every block in
// every segment and grid cell. The result shares no mutable state with p.
func ApplyBindingsToPage(p pages.Page, ctx Context, opts Options) pages.Page {
	out := p
	out.Title = ReplaceBindings(p.Title, ctx)
	out.Description = ReplaceBindings(p.Description, ctx)
	out.SEOTitle = ReplaceBindings(p.SEOTitle, ctx)
	out.SEODescription = ReplaceBindings(p.SEODescription, ctx)

	if p.Segments == nil {
		return out
	}
	segments := make([]pages.Segment, len(p.Segments))
	for si, seg := range p.Segments {
		s := seg
		s.Cells = make([]pages.GridCell, len(seg.Cells))
		for ci, cell := range seg.Cells {
			c := cell
			c.Blocks = make([]pages.Block, len(cell.Blocks))
			for bi, b := range cell.Blocks {
				c.Blocks[bi] = ApplyBindingsToBlock(b, ctx, opts)
			}
			s.Cells[ci] = c
		}
		segments[si] = s
	}
	out.Segments = segments
	return out
}
