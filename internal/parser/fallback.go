package parser

// Scrape is the guaranteed-success fallback: the entire line becomes the
// message and the field scrapers pull whatever they can find. Every
// non-blank input therefore yields a Record, never a parse failure.
func Scrape(line string) *Record {
	r := &Record{Message: line}
	scrapeInto(r)
	return r
}
