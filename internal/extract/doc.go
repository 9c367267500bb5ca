// Package extract turns uploaded or fetched media into plain text: PDF pages,
// YouTube transcripts and HTML rendered as Markdown. It also tags text with the
// language it is written in.
package extract
