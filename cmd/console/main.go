// Command console is the terminal front end: summarise a video, chat with a
// document, or scrape a page and work on it.
package main

func main() {
	Execute()
}
