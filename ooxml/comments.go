package ooxml

import "encoding/xml"

// Comments binds a legacy xl/comments*.xml part.
type Comments struct {
	XMLName   xml.Name    `xml:"comments"`
	Xmlns     string      `xml:"xmlns,attr"`
	Authors   []string    `xml:"authors>author"`
	CommentList []Comment `xml:"commentList>comment"`
}

type Comment struct {
	Ref      string `xml:"ref,attr"`
	AuthorID int    `xml:"authorId,attr"`
	Text     CommentText `xml:"text"`
}

type CommentText struct {
	R []RichRun `xml:"r"`
	T *Text     `xml:"t"`
}

// ThreadedComments binds xl/threadedComments/threadedCommentN.xml.
type ThreadedComments struct {
	XMLName xml.Name          `xml:"ThreadedComments"`
	Xmlns   string            `xml:"xmlns,attr"`
	Items   []ThreadedComment `xml:"threadedComment"`
}

type ThreadedComment struct {
	Ref      string `xml:"ref,attr"`
	ID       string `xml:"id,attr"`
	ParentID string `xml:"parentId,attr,omitempty"`
	PersonID string `xml:"personId,attr"`
	DT       string `xml:"dT,attr,omitempty"`
	Done     bool   `xml:"done,attr,omitempty"`
	Text     string `xml:"text"`
}
