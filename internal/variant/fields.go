package variant

// FieldKind 决定编辑面板使用的输入控件。
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindImage    FieldKind = "image"
	KindColor    FieldKind = "color"
	KindNumber   FieldKind = "number"
	KindURL      FieldKind = "url"
	KindList     FieldKind = "list"
)

// Field 描述区块数据中的一个可编辑字段。list 字段的 Item 描述每个元素；
// Item 为空的 list 表示元素是纯字符串。
type Field struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Kind  FieldKind `json:"kind"`
	Item  []Field   `json:"item,omitempty"`
}

func list(key, label string, item ...Field) Field {
	return Field{Key: key, Label: label, Kind: KindList, Item: item}
}

var (
	linkItem = []Field{
		{Key: "text", Label: "Text", Kind: KindText},
		{Key: "url", Label: "URL", Kind: KindURL},
	}
	socialItem = []Field{
		{Key: "icon", Label: "Icon", Kind: KindText},
		{Key: "url", Label: "URL", Kind: KindURL},
	}
)

var navbarFields = []Field{
	{Key: "logo", Label: "Logo", Kind: KindImage},
	{Key: "tabLogo", Label: "Browser Tab Logo (Favicon)", Kind: KindImage},
	{Key: "title", Label: "Title", Kind: KindText},
	list("links", "Links", linkItem...),
	list("socialLinks", "Social Links", socialItem...),
	{Key: "backgroundColor", Label: "Background Color", Kind: KindColor},
}

var heroFields = []Field{
	{Key: "title", Label: "Title", Kind: KindText},
	{Key: "subtitle", Label: "Subtitle", Kind: KindText},
	list("paragraphs", "Paragraphs"),
	list("ctaButtons", "Buttons",
		Field{Key: "text", Label: "Text", Kind: KindText},
		Field{Key: "url", Label: "URL", Kind: KindURL},
		Field{Key: "variant", Label: "Style", Kind: KindText},
	),
	{Key: "backgroundImage", Label: "Background Image", Kind: KindImage},
	{Key: "backgroundOpacity", Label: "Background Opacity", Kind: KindNumber},
}

var videoFields = []Field{
	{Key: "videoUrl", Label: "Video URL", Kind: KindURL},
	{Key: "videoThumbnail", Label: "Video Thumbnail", Kind: KindImage},
}

var aboutFields = []Field{
	{Key: "image", Label: "Image", Kind: KindImage},
	{Key: "title", Label: "Title", Kind: KindText},
	list("paragraphs", "Paragraphs"),
	{Key: "backgroundColor", Label: "Background Color", Kind: KindColor},
}

var teamFields = []Field{
	list("teamMembers", "Team Members",
		Field{Key: "name", Label: "Name", Kind: KindText},
		Field{Key: "role", Label: "Role", Kind: KindText},
		Field{Key: "image", Label: "Photo", Kind: KindImage},
	),
}

var servicesFields = []Field{
	{Key: "title", Label: "Title", Kind: KindText},
	{Key: "subtitle", Label: "Subtitle", Kind: KindText},
	list("services", "Services",
		Field{Key: "icon", Label: "Icon", Kind: KindText},
		Field{Key: "title", Label: "Title", Kind: KindText},
		Field{Key: "description", Label: "Description", Kind: KindTextarea},
	),
	{Key: "backgroundImage", Label: "Background Image", Kind: KindImage},
	{Key: "backgroundColor", Label: "Background Color", Kind: KindColor},
}

var featuredToursFields = []Field{
	{Key: "title", Label: "Title", Kind: KindText},
	{Key: "subtitle", Label: "Subtitle", Kind: KindText},
	list("tours", "Tours",
		Field{Key: "image", Label: "Tour Image", Kind: KindImage},
		Field{Key: "title", Label: "Title", Kind: KindText},
		Field{Key: "description", Label: "Description", Kind: KindTextarea},
		Field{Key: "price", Label: "Price", Kind: KindText},
		Field{Key: "duration", Label: "Duration", Kind: KindText},
		Field{Key: "url", Label: "URL", Kind: KindURL},
	),
	{Key: "backgroundColor", Label: "Background Color", Kind: KindColor},
}

var footerFields = []Field{
	{Key: "logo", Label: "Logo", Kind: KindImage},
	list("links", "Link Columns",
		Field{Key: "title", Label: "Title", Kind: KindText},
		list("items", "Links", linkItem...),
	),
	list("socialLinks", "Social Links", socialItem...),
	{Key: "copyright", Label: "Copyright Text", Kind: KindText},
	{Key: "backgroundColor", Label: "Background Color", Kind: KindColor},
}
