package locale

// Message 是界面与错误提示文案的键。
type Message string

const (
	MsgInvalidRequest     Message = "invalid_request"
	MsgInvalidID          Message = "invalid_id"
	MsgUnauthorized       Message = "unauthorized"
	MsgLoginFailed        Message = "login_failed"
	MsgSessionFailed      Message = "session_failed"
	MsgEmailRequired      Message = "email_required"
	MsgEmailInvalid       Message = "email_invalid"
	MsgEmailTaken         Message = "email_taken"
	MsgPasswordTooShort   Message = "password_too_short"
	MsgWebsiteNotFound    Message = "website_not_found"
	MsgTemplateNotFound   Message = "template_not_found"
	MsgNameRequired       Message = "name_required"
	MsgSlugTaken          Message = "slug_taken"
	MsgSlugInvalid        Message = "slug_invalid"
	MsgSectionNotFound    Message = "section_not_found"
	MsgUnknownSectionType Message = "unknown_section_type"
	MsgUnknownVariant     Message = "unknown_variant"
	MsgInvalidArrayOp     Message = "invalid_array_op"
	MsgInvalidTab         Message = "invalid_tab"
	MsgInvalidAction      Message = "invalid_action"
	MsgNoInsertPosition   Message = "no_insert_position"
	MsgNotPublished       Message = "not_published"
	MsgUploadMissing      Message = "upload_missing"
	MsgUploadNotImage     Message = "upload_not_image"
	MsgUploadTooLarge     Message = "upload_too_large"
	MsgUploadFailed       Message = "upload_failed"
	MsgInternal           Message = "internal"
	MsgPageNotFound       Message = "page_not_found"
	MsgPageNotFoundHint   Message = "page_not_found_hint"
	MsgSaved              Message = "saved"
	MsgPublished          Message = "published"
)

// 每个条目依次为英文与中文
var catalog = map[Message][2]string{
	MsgInvalidRequest:     {"Invalid request payload", "请求参数无效"},
	MsgInvalidID:          {"Invalid id", "无效的 ID"},
	MsgUnauthorized:       {"Please sign in first", "请先登录"},
	MsgLoginFailed:        {"Incorrect email or password", "邮箱或密码错误"},
	MsgSessionFailed:      {"Failed to save session", "会话保存失败"},
	MsgEmailRequired:      {"Email is required", "邮箱不能为空"},
	MsgEmailInvalid:       {"Email is invalid", "邮箱格式不正确"},
	MsgEmailTaken:         {"Email is already registered", "该邮箱已被注册"},
	MsgPasswordTooShort:   {"Password must be at least 6 characters", "密码至少需要 6 个字符"},
	MsgWebsiteNotFound:    {"Website not found", "网站不存在"},
	MsgTemplateNotFound:   {"Template not found", "模板不存在"},
	MsgNameRequired:       {"Website name is required", "网站名称不能为空"},
	MsgSlugTaken:          {"This address is already taken", "该地址已被占用"},
	MsgSlugInvalid:        {"Address may only contain lowercase letters, digits and dashes", "地址只能包含小写字母、数字和连字符"},
	MsgSectionNotFound:    {"Section not found", "区块不存在"},
	MsgUnknownSectionType: {"Unknown section type", "未知的区块类型"},
	MsgUnknownVariant:     {"Unknown variant", "未知的区块样式"},
	MsgInvalidArrayOp:     {"Unsupported array operation", "不支持的数组操作"},
	MsgInvalidTab:         {"Unknown editor tab", "未知的编辑标签页"},
	MsgInvalidAction:      {"Unsupported editor action", "不支持的编辑操作"},
	MsgNoInsertPosition:   {"Choose where to add the section first", "请先选择插入位置"},
	MsgNotPublished:       {"Website is not published", "网站尚未发布"},
	MsgUploadMissing:      {"No image uploaded", "未找到上传的图片"},
	MsgUploadNotImage:     {"Only image files are allowed", "只允许上传图片文件"},
	MsgUploadTooLarge:     {"Image is too large", "图片过大"},
	MsgUploadFailed:       {"Failed to save image", "保存图片失败"},
	MsgInternal:           {"Something went wrong", "服务器内部错误"},
	MsgPageNotFound:       {"Page not found", "页面不存在"},
	MsgPageNotFoundHint:   {"The website you are looking for does not exist or has not been published yet.", "你访问的网站不存在或尚未发布。"},
	MsgSaved:              {"Saved", "已保存"},
	MsgPublished:          {"Published", "已发布"},
}

// Pick returns the text matching the request language, defaulting to Chinese.
func Pick(language, english, chinese string) string {
	if NormalizeLanguage(language) == LanguageEnglish {
		if english != "" {
			return english
		}
		return chinese
	}
	if chinese != "" {
		return chinese
	}
	return english
}

// Text 返回文案；未登记的键原样返回。
func Text(language string, key Message) string {
	entry, ok := catalog[key]
	if !ok {
		return string(key)
	}
	return Pick(language, entry[0], entry[1])
}
