// This file is part of GopherGBA.
//
// GopherGBA is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherGBA is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherGBA.  If not, see <https://www.gnu.org/licenses/>.

// Package icache implements the per-region instruction page cache. Pages
// hold decoded instructions for the CPU collaborator, which re-decodes
// lazily on the next fetch after a page has been invalidated.
//
// The cache itself never inspects the decoded form. A page is valid iff no
// store has touched its address range since the page was allocated.
package icache

// Page holds the decoded instructions for a contiguous range of a cacheable
// region. The Arm and Thumb slices run in parallel over the same bytes: one
// entry per word for ARM, one per halfword for Thumb. The CPU writes decoded
// instructions into the slots; this package never reads them.
type Page struct {
	Arm     []interface{}
	Thumb   []interface{}
	Invalid bool
}

// Cache is a lazily populated set of pages covering a region.
type Cache struct {
	pageBits uint32
	pages    []*Page
}

// NewCache is the preferred method of initialisation for the Cache type.
// Size is the byte length of the region being covered; pageBits the number
// of offset bits in a page (the page size is 1<<pageBits). Regions smaller
// than one page are covered by a single page.
func NewCache(size uint32, pageBits uint32) *Cache {
	n := size >> pageBits
	if n == 0 {
		n = 1
	}
	return &Cache{
		pageBits: pageBits,
		pages:    make([]*Page, n),
	}
}

// PageBits returns the number of offset bits in a page. The value is fixed
// at construction and never changes.
func (c *Cache) PageBits() uint32 {
	return c.pageBits
}

// Access returns the page with the given ID, allocating a fresh page if none
// exists or if the existing page has been invalidated.
func (c *Cache) Access(pageID uint32) *Page {
	pageID %= uint32(len(c.pages))

	p := c.pages[pageID]
	if p == nil || p.Invalid {
		p = &Page{
			Arm:   make([]interface{}, 1<<(c.pageBits-2)),
			Thumb: make([]interface{}, 1<<(c.pageBits-1)),
		}
		c.pages[pageID] = p
	}

	return p
}

// Invalidate marks the page covering the offset as invalid. The page is not
// deallocated; consumers holding a handle to it observe the Invalid flag and
// must re-acquire through Access().
func (c *Cache) Invalidate(offset uint32) {
	pageID := (offset >> c.pageBits) % uint32(len(c.pages))

	if p := c.pages[pageID]; p != nil {
		p.Invalid = true
	}
}

// Flush invalidates every allocated page. Used when the region contents are
// replaced wholesale.
func (c *Cache) Flush() {
	for _, p := range c.pages {
		if p != nil {
			p.Invalid = true
		}
	}
}
