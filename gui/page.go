package gui

// Page is an ordered set of elements shown together. Elements are drawn in
// insertion order, so the last inserted element is on top.
type Page struct {
	id       PageID
	elements []Element
	count    int
	dirty    bool
}

func (p *Page) ID() PageID {
	return p.id
}

func (p *Page) Len() int {
	return p.count
}

func (p *Page) Cap() int {
	return len(p.elements)
}

func (p *Page) Dirty() bool {
	return p.dirty
}

func (p *Page) Element(id ElemID) *Element {
	for i := range p.elements[:p.count] {
		if p.elements[i].id == id {
			return &p.elements[i]
		}
	}
	return nil
}

// Elements returns the page's elements in z-order, bottom first.
func (p *Page) Elements() []*Element {
	result := make([]*Element, p.count)
	for i := range result {
		result[i] = &p.elements[i]
	}
	return result
}

// Hit returns the topmost element containing the point or nil.
func (p *Page) Hit(x, y int) *Element {
	for i := p.count - 1; i >= 0; i-- {
		if p.elements[i].rect.Contains(x, y) {
			return &p.elements[i]
		}
	}
	return nil
}
