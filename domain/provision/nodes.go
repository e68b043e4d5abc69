package provision

type canvasNode struct{ canvas CanvasElement }

func (n canvasNode) Width() int        { return n.canvas.Width() }
func (n canvasNode) Height() int       { return n.canvas.Height() }
func (n canvasNode) Element() Drawable { return n.canvas }
func (n canvasNode) Kind() Kind        { return KindCanvas }
func (canvasNode) sealed()             {}

type videoNode struct{ video VideoElement }

func (n videoNode) Width() int        { return n.video.VideoWidth() }
func (n videoNode) Height() int       { return n.video.VideoHeight() }
func (n videoNode) Element() Drawable { return n.video }
func (n videoNode) Kind() Kind        { return KindVideo }
func (videoNode) sealed()             {}
