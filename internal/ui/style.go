package ui

// Stylesheet is inlined into the page head.
const Stylesheet = `
body{font-family:system-ui,sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem;color:#222}
header h1{font-size:1.6rem;margin:0 0 1rem}
#ticket-list{list-style:none;padding:0}
#ticket-list>li{border:1px solid #ddd;border-radius:6px;padding:.75rem 1rem;margin-bottom:.75rem}
.title{font-weight:600}
.description{color:#555;margin:.25rem 0 .5rem}
.status{cursor:pointer}
.comment-item,.text{padding:.25rem 0;border-top:1px dashed #eee}
.no-tickets,.no-comments{color:#888;font-style:italic}
form div{margin:.4rem 0}
label{display:block;font-size:.85rem;color:#555}
input,textarea{width:100%;box-sizing:border-box;padding:.35rem}
`
