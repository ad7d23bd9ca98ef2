package nasdaq

// SectionCount is the number of time-range sections the site splits a
// ticker's trade history into. It is a property of the site layout and is
// never reported by any page.
const SectionCount = 13

// pagesPerSection bounds the page numbers a single section may use, which
// keeps identifiers of different sections from overlapping.
const pagesPerSection = 100000

// PageID orders (section, page) pairs on one integer line. It is only ever
// compared against other identifiers and is not a page count.
func PageID(section, page int) int64 {
	return int64(section)*pagesPerSection + int64(page)
}

// SectionID is the identifier of a section before any of its pages.
func SectionID(section int) int64 {
	return PageID(section, 0)
}
